package config

import (
	"bufio"
	"os"
	"strings"

	"github.com/holger24/AFD-sub001/internal/dispatch"
	"github.com/holger24/AFD-sub001/internal/errors"
)

// Permissions is the parsed permission file: one token per line, with an
// optional "= alias,alias" restriction. The token "all" grants everything.
// It implements the dispatcher's oracle.
type Permissions struct {
	all    bool
	tokens map[string][]string
}

// LoadPermissions reads and parses the permission file. A missing or
// unreadable file is a fatal bootstrap error.
func LoadPermissions(path string) (*Permissions, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrPerm,
			"Cannot read the permission file at "+path,
			"Create it, or point permission_file at the right location.")
	}
	defer f.Close()

	p := &Permissions{tokens: make(map[string][]string)}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		token := line
		var aliases []string
		if idx := strings.Index(line, "="); idx >= 0 {
			token = strings.TrimSpace(line[:idx])
			for _, a := range strings.FieldsFunc(line[idx+1:], func(r rune) bool {
				return r == ',' || r == ' ' || r == '\t'
			}) {
				aliases = append(aliases, a)
			}
		}

		if token == "all" {
			p.all = true
			continue
		}
		// A repeated token widens: a bare mention drops an earlier
		// restriction, lists merge.
		if existing, ok := p.tokens[token]; ok {
			if existing == nil || aliases == nil {
				p.tokens[token] = nil
			} else {
				p.tokens[token] = append(existing, aliases...)
			}
			continue
		}
		p.tokens[token] = aliases
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrPerm,
			"Failed reading the permission file at "+path, "")
	}

	return p, nil
}

// Allowed answers the oracle query for one action token.
func (p *Permissions) Allowed(token string) (dispatch.Permission, []string) {
	if p.all {
		return dispatch.PermAll, nil
	}
	aliases, ok := p.tokens[token]
	if !ok {
		return dispatch.PermNone, nil
	}
	if len(aliases) == 0 {
		return dispatch.PermAll, nil
	}
	return dispatch.PermLimited, aliases
}
