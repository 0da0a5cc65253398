// Package query evaluates JSONPath expressions over decoded JSON documents
// (map[string]any / []any trees as produced by oj.Parse).
//
// Expressions without a leading '$' or '@' are rooted, so "uniqueKey" and
// "$.uniqueKey" are equivalent. Parse errors are logged and treated as "no
// match": read accessors built on this package never fail.
package query

import (
	"log"
	"strings"
	"sync"

	"github.com/ohler55/ojg/jp"
)

var exprs = newExprCache(256)

// Search returns the first value selected by expr, or nil.
func Search(doc any, expr string) any {
	x, ok := compile(expr)
	if !ok {
		return nil
	}
	return x.First(doc)
}

// All returns every value selected by expr.
func All(doc any, expr string) []any {
	x, ok := compile(expr)
	if !ok {
		return nil
	}
	return x.Get(doc)
}

// Child follows a fixed chain of mapping keys. Unlike Search it accepts keys
// that are not valid in dotted notation (core names with dashes, dots).
func Child(doc any, keys ...string) any {
	if len(keys) == 0 {
		return doc
	}
	x := jp.R()
	for _, k := range keys {
		x = x.C(k)
	}
	return x.First(doc)
}

// String returns the string selected by expr, or "".
func String(doc any, expr string) string {
	s, _ := Search(doc, expr).(string)
	return s
}

func compile(expr string) (jp.Expr, bool) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, false
	}
	if !strings.HasPrefix(expr, "$") && !strings.HasPrefix(expr, "@") {
		if strings.HasPrefix(expr, "[") {
			expr = "$" + expr
		} else {
			expr = "$." + expr
		}
	}

	if x, ok := exprs.get(expr); ok {
		return x, true
	}
	x, err := jp.ParseString(expr)
	if err != nil {
		log.Printf("query: invalid jsonpath '%s': %v", expr, err)
		return nil, false
	}
	exprs.put(expr, x)
	return x, true
}

// exprCache is a simple FIFO-evicting bounded cache of parsed expressions.
type exprCache struct {
	mu      sync.Mutex
	entries map[string]jp.Expr
	keys    []string
	maxSize int
}

func newExprCache(maxSize int) *exprCache {
	return &exprCache{
		entries: make(map[string]jp.Expr, maxSize),
		keys:    make([]string, 0, maxSize),
		maxSize: maxSize,
	}
}

func (c *exprCache) get(key string) (jp.Expr, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	x, ok := c.entries[key]
	return x, ok
}

func (c *exprCache) put(key string, x jp.Expr) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; ok {
		c.entries[key] = x
		return
	}
	if len(c.entries) >= c.maxSize {
		evict := c.keys[0]
		c.keys = c.keys[1:]
		delete(c.entries, evict)
	}
	c.entries[key] = x
	c.keys = append(c.keys, key)
}
