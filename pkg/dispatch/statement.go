package dispatch

import (
	"fmt"
	"strings"
)

// Statement is a utility command headed for the dispatcher
type Statement interface {
	// SQL returns the statement text to execute
	SQL() string
}

// AlterSystem is a server-configuration change (ALTER SYSTEM ...)
type AlterSystem struct {
	Parameter string
	Value     string
	Text      string
}

// SQL returns the statement text
func (s AlterSystem) SQL() string {
	if s.Text != "" {
		return s.Text
	}
	return fmt.Sprintf("ALTER SYSTEM SET %s = %s", s.Parameter, s.Value)
}

// Copy is a COPY statement. Program is true when the source or target
// is an OS program rather than a file or table.
type Copy struct {
	Table   string
	Program bool
	Source  string
	Text    string
}

// SQL returns the statement text
func (s Copy) SQL() string {
	if s.Text != "" {
		return s.Text
	}
	source := fmt.Sprintf("'%s'", s.Source)
	if s.Program {
		source = "PROGRAM " + source
	}
	return fmt.Sprintf("COPY %s FROM %s", s.Table, source)
}

// Raw is any statement outside the recognized categories
type Raw struct {
	Text string
}

// SQL returns the statement text
func (s Raw) SQL() string {
	return s.Text
}

// Classify routes a SQL string into a statement category. It is a
// keyword classifier for utility routing, not a SQL parser: it
// recognizes ALTER SYSTEM and COPY ... FROM/TO PROGRAM and leaves
// everything else as Raw.
func Classify(sql string) Statement {
	fields := strings.Fields(sql)
	upper := make([]string, len(fields))
	for i, f := range fields {
		upper[i] = strings.ToUpper(f)
	}

	switch {
	case len(upper) >= 2 && upper[0] == "ALTER" && upper[1] == "SYSTEM":
		st := AlterSystem{Text: sql}
		if len(fields) >= 4 && upper[2] == "SET" {
			name, _, _ := strings.Cut(fields[3], "=")
			st.Parameter = strings.TrimRight(name, ";")
		}
		return st

	case len(upper) >= 2 && upper[0] == "COPY":
		st := Copy{Table: fields[1], Text: sql}
		for i := 1; i < len(upper); i++ {
			if upper[i] != "FROM" && upper[i] != "TO" {
				continue
			}
			if i+1 < len(upper) && upper[i+1] == "PROGRAM" {
				st.Program = true
				if i+2 < len(fields) {
					st.Source = strings.Trim(fields[i+2], "';")
				}
			} else if i+1 < len(fields) {
				st.Source = strings.Trim(fields[i+1], "';")
			}
			break
		}
		return st
	}

	return Raw{Text: sql}
}
