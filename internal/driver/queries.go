package driver

var IndexQueries = []string{
	"CREATE INDEX ON :Run(id);",
	"CREATE INDEX ON :Run(ontology);",
	"CREATE INDEX ON :Source(name);",
}

const (
	SaveRunQuery = `
		MERGE (r:Run {id: $id})
		SET r.ontology = $ontology,
			r.operation = $operation,
			r.mode = $mode,
			r.majority = $majority,
			r.created_at = $created_at
		WITH r
		UNWIND $sources AS s
		MERGE (src:Source {name: s.id})
		MERGE (r)-[e:HAS_SOURCE {position: s.position}]->(src)
		SET e.status = s.status,
			e.verdict = s.verdict,
			e.cluster = s.cluster
		RETURN count(e) AS sources
	`

	ListRunsQuery = `
		MATCH (r:Run)
		WHERE $ontology = "" OR r.ontology = $ontology
		OPTIONAL MATCH (r)-[e:HAS_SOURCE]->(src:Source)
		WITH r, collect({id: src.name, position: e.position, status: e.status, verdict: e.verdict, cluster: e.cluster}) AS sources
		RETURN r.id AS id,
			r.ontology AS ontology,
			r.operation AS operation,
			r.mode AS mode,
			r.majority AS majority,
			r.created_at AS created_at,
			sources
		ORDER BY created_at DESC
		LIMIT $limit
	`
)
