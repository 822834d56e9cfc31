// Package owl provides the RDF, RDFS and OWL vocabulary terms the ontology
// checker queries for.
//
// Only the terms used to classify declarations are defined here. A subject
// is "declared as" a kind when the graph holds the triple
//
//	<subject> rdf:type <kind IRI>
//
// where the kind IRI is one of ClassIRI, DatatypePropertyIRI or
// ObjectPropertyIRI.
package owl
