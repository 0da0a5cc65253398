package solr

import (
	"testing"

	"github.com/agentic-research/solradmin/internal/solrtest"
)

func newTestCluster(t *testing.T) (*solrtest.Server, *Cluster) {
	t.Helper()
	srv := solrtest.NewServer()
	return srv, NewCluster(srv)
}

// coreActions counts core admin calls with the given action.
func coreActions(srv *solrtest.Server, action string) int {
	n := 0
	for _, c := range srv.Find("GET", "admin/cores") {
		if c.Query.Get("action") == action {
			n++
		}
	}
	return n
}
