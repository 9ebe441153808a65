package kg

import (
	"fmt"
	"strings"
)

// sparqlPrefixes declares the vocabularies used by all query templates.
const sparqlPrefixes = `PREFIX sfia: <https://rdf.sfia-online.org/9/ontology/>
PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
PREFIX rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#>
PREFIX skos: <http://www.w3.org/2004/02/skos/core#>
`

// escapeLiteral escapes a string for safe embedding in a SPARQL literal
// or regex argument. Queries are fixed templates; this is the only user
// input that reaches them.
func escapeLiteral(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

// searchSkillsQuery matches skills whose label, description or category
// contains the keyword, case-insensitively. Defined proficiency levels are
// aggregated so callers get the skill's scale in one round trip.
func searchSkillsQuery(keyword string, limit int) string {
	k := escapeLiteral(keyword)
	return fmt.Sprintf(`%s
SELECT ?skill ?code ?label ?description ?category
       (GROUP_CONCAT(DISTINCT ?levelNumber; separator=",") AS ?levels)
WHERE {
    ?skill a sfia:Skill ;
           sfia:code ?code ;
           rdfs:label ?label .

    OPTIONAL { ?skill sfia:description ?description }
    OPTIONAL {
        ?skill sfia:hasCategory ?categoryUri .
        ?categoryUri rdfs:label ?category
    }
    OPTIONAL {
        ?skill sfia:hasSkillLevel ?skillLevel .
        ?skillLevel sfia:levelNumber ?levelNumber .
    }

    FILTER (
        regex(?label, "%s", "i") ||
        regex(?description, "%s", "i") ||
        regex(?category, "%s", "i")
    )
}
GROUP BY ?skill ?code ?label ?description ?category
ORDER BY ?label
LIMIT %d`, sparqlPrefixes, k, k, k, limit)
}

// skillByCodeQuery fetches one skill with its per-level descriptions.
func skillByCodeQuery(code string) string {
	return fmt.Sprintf(`%s
SELECT ?skill ?code ?label ?description ?category ?levelNumber ?levelDescription
WHERE {
    ?skill a sfia:Skill ;
           sfia:code "%s" ;
           sfia:code ?code ;
           rdfs:label ?label .

    OPTIONAL { ?skill sfia:description ?description }
    OPTIONAL {
        ?skill sfia:hasCategory ?categoryUri .
        ?categoryUri rdfs:label ?category
    }
    OPTIONAL {
        ?skill sfia:hasSkillLevel ?skillLevel .
        ?skillLevel sfia:levelNumber ?levelNumber ;
                    sfia:description ?levelDescription .
    }
}
ORDER BY ?levelNumber`, sparqlPrefixes, escapeLiteral(code))
}

// skillsByCategoryQuery lists skills whose category label contains the
// given name, case-insensitively.
func skillsByCategoryQuery(category string, limit int) string {
	c := escapeLiteral(category)
	return fmt.Sprintf(`%s
SELECT ?skill ?code ?label ?description ?category
       (GROUP_CONCAT(DISTINCT ?levelNumber; separator=",") AS ?levels)
WHERE {
    ?skill a sfia:Skill ;
           sfia:code ?code ;
           rdfs:label ?label ;
           sfia:hasCategory ?categoryUri .
    ?categoryUri rdfs:label ?category .

    OPTIONAL { ?skill sfia:description ?description }
    OPTIONAL {
        ?skill sfia:hasSkillLevel ?skillLevel .
        ?skillLevel sfia:levelNumber ?levelNumber .
    }

    FILTER (regex(?category, "%s", "i"))
}
GROUP BY ?skill ?code ?label ?description ?category
ORDER BY ?label
LIMIT %d`, sparqlPrefixes, c, limit)
}

// tripleCountQuery is the health probe: the cheapest query that proves the
// store is answering and gives a size estimate.
const tripleCountQuery = `SELECT (COUNT(*) AS ?count) WHERE { ?s ?p ?o }`
