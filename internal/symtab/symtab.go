// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package symtab interns operator names into small, totally-ordered tokens
// backed by a trie, so a demo operator alphabet (see demo/arith) can satisfy
// enode.Op's ordering requirement without hand-assigning integer constants
// per operator name.
package symtab

import (
	"fmt"
	"sync"

	"github.com/derekparker/trie"
)

// Table interns operator names to Tokens, and back. The zero value is not
// usable; construct one with New.
type Table struct {
	mu     sync.Mutex
	byName *trie.Trie
	names  []string // index i holds the name interned as Token(i)
}

// New returns an empty Table.
func New() *Table {
	return &Table{byName: trie.New()}
}

// Token is an opaque, totally-ordered handle for an interned operator name.
// Tokens are only comparable within the Table that produced them.
type Token int

// Less orders tokens by interning order, which is also registration order —
// stable for a given sequence of Intern calls, not alphabetical.
func (t Token) Less(other Token) bool {
	return t < other
}

// Intern returns name's Token, registering it on first use.
func (t *Table) Intern(name string) Token {
	t.mu.Lock()
	defer t.mu.Unlock()
	if node, ok := t.byName.Find(name); ok {
		return node.Meta().(Token)
	}
	tok := Token(len(t.names))
	t.names = append(t.names, name)
	t.byName.Add(name, tok)
	return tok
}

// Name returns the operator name tok was interned from.
func (t *Table) Name(tok Token) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if int(tok) < 0 || int(tok) >= len(t.names) {
		return fmt.Sprintf("token(%d)", tok)
	}
	return t.names[tok]
}

// WithPrefix returns every interned name with the given prefix, in trie
// traversal order.
func (t *Table) WithPrefix(prefix string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.byName.PrefixSearch(prefix)
}
