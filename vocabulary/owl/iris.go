package owl

// Namespace IRIs for the standard vocabularies.
const (
	RDFNamespace  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace = "http://www.w3.org/2000/01/rdf-schema#"
	OWLNamespace  = "http://www.w3.org/2002/07/owl#"
	XSDNamespace  = "http://www.w3.org/2001/XMLSchema#"
)

// TypeIRI is rdf:type, the "is-a" predicate.
const TypeIRI = RDFNamespace + "type"

// Declaration type IRIs.
const (
	// ClassIRI is owl:Class.
	ClassIRI = OWLNamespace + "Class"

	// DatatypePropertyIRI is owl:DatatypeProperty.
	DatatypePropertyIRI = OWLNamespace + "DatatypeProperty"

	// ObjectPropertyIRI is owl:ObjectProperty.
	ObjectPropertyIRI = OWLNamespace + "ObjectProperty"
)

// DeclarationKind names a kind of ontology entity counted in reports.
type DeclarationKind string

const (
	KindClass            DeclarationKind = "class"
	KindDatatypeProperty DeclarationKind = "datatype_property"
	KindObjectProperty   DeclarationKind = "object_property"
)

// IRI returns the OWL type IRI that marks the declaration kind.
func (k DeclarationKind) IRI() string {
	switch k {
	case KindClass:
		return ClassIRI
	case KindDatatypeProperty:
		return DatatypePropertyIRI
	case KindObjectProperty:
		return ObjectPropertyIRI
	default:
		return ""
	}
}

// Label returns the human-readable plural used in statistics output.
func (k DeclarationKind) Label() string {
	switch k {
	case KindClass:
		return "Classes"
	case KindDatatypeProperty:
		return "Datatype properties"
	case KindObjectProperty:
		return "Object properties"
	default:
		return string(k)
	}
}

// DeclarationKinds lists the kinds in report order.
func DeclarationKinds() []DeclarationKind {
	return []DeclarationKind{KindClass, KindDatatypeProperty, KindObjectProperty}
}
