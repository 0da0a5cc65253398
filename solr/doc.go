// Package solr is a caching client over a Solr cluster's administrative REST
// API.
//
// Every read is fetched once and memoized on the component that owns it;
// every mutation invalidates exactly the caches it can affect before it
// returns, so a read that follows a write on the same handle observes the
// post-write server state.
//
// Basic usage:
//
//	cluster := solr.NewCluster(transport.NewHTTP("http://localhost:8983/solr", 30*time.Second))
//	core := cluster.Core("demo")
//	core.SetConfigName("solrconfig.xml")
//	core.Create()
//
//	core.Schema().ModifyElement("field", api.Element{"name": "title", "type": "text_general"})
//	syn := core.Synonyms("english")
//	syn.AppendGroup([]string{"tv", "television"})
//
// Components are NOT safe for concurrent use. A Cluster may be shared by many
// Core handles, but callers must confine a handle (and everything obtained
// from it) to one goroutine or guard it with a mutex.
//
// Reads never fail: connection errors, non-JSON responses and malformed
// payloads degrade to empty values. Mutations report an Outcome describing
// whether anything was sent.
package solr
