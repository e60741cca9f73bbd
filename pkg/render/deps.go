package render

import (
	"fmt"
	"slices"
	"strings"
	texttemplate "text/template"
	"text/template/parse"
)

// Dependencies returns every component key reachable from key through
// include calls with a constant name, sorted. Includes whose name is
// computed at render time cannot be seen and are not reported.
func (r *Renderer) Dependencies(key string) ([]string, error) {
	name, err := cleanKey(key)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{name: true}
	queue := []string{name}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		c, err := r.load(cur, false)
		if err != nil {
			return nil, err
		}
		for _, inc := range c.includes {
			if !seen[inc] {
				seen[inc] = true
				queue = append(queue, inc)
			}
		}
	}

	delete(seen, name)
	deps := make([]string, 0, len(seen))
	for k := range seen {
		deps = append(deps, k)
	}
	slices.Sort(deps)
	return deps, nil
}

// detectCycle reports ErrIncludeCycle if name can include itself.
func (r *Renderer) detectCycle(name string) error {
	const (
		visiting = 1
		done     = 2
	)
	state := make(map[string]int)

	var visit func(cur string, trail []string) error
	visit = func(cur string, trail []string) error {
		switch state[cur] {
		case visiting:
			return fmt.Errorf("%w: %s", ErrIncludeCycle, strings.Join(append(trail, cur), " -> "))
		case done:
			return nil
		}
		state[cur] = visiting

		c, err := r.load(cur, false)
		if err != nil {
			// Missing includes surface when they are executed.
			state[cur] = done
			return nil
		}
		for _, inc := range c.includes {
			if err := visit(inc, append(trail, cur)); err != nil {
				return err
			}
		}
		state[cur] = done
		return nil
	}
	return visit(name, nil)
}

// staticIncludes lists the constant names passed to include in t and in
// every template it defines.
func staticIncludes(t *texttemplate.Template) []string {
	set := make(map[string]struct{})
	for _, tt := range t.Templates() {
		if tt.Tree != nil {
			walkNode(tt.Tree.Root, set)
		}
	}

	out := make([]string, 0, len(set))
	for k := range set {
		if name, err := cleanKey(k); err == nil {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}

func walkNode(node parse.Node, set map[string]struct{}) {
	switch n := node.(type) {
	case *parse.ListNode:
		if n == nil {
			return
		}
		for _, child := range n.Nodes {
			walkNode(child, set)
		}
	case *parse.ActionNode:
		walkPipe(n.Pipe, set)
	case *parse.IfNode:
		walkBranch(&n.BranchNode, set)
	case *parse.RangeNode:
		walkBranch(&n.BranchNode, set)
	case *parse.WithNode:
		walkBranch(&n.BranchNode, set)
	case *parse.TemplateNode:
		walkPipe(n.Pipe, set)
	}
}

func walkBranch(b *parse.BranchNode, set map[string]struct{}) {
	walkPipe(b.Pipe, set)
	walkNode(b.List, set)
	walkNode(b.ElseList, set)
}

func walkPipe(p *parse.PipeNode, set map[string]struct{}) {
	if p == nil {
		return
	}
	for _, cmd := range p.Cmds {
		for i, arg := range cmd.Args {
			switch a := arg.(type) {
			case *parse.IdentifierNode:
				if a.Ident != "include" || i+1 >= len(cmd.Args) {
					continue
				}
				if s, ok := cmd.Args[i+1].(*parse.StringNode); ok {
					set[s.Text] = struct{}{}
				}
			case *parse.PipeNode:
				walkPipe(a, set)
			}
		}
	}
}
