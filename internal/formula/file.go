package formula

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Formula file format: a sequence of description/expression line
// pairs. A description line starts with "@", the expression line that
// must immediately follow starts with "$". Blank lines between pairs
// are tolerated; anything else is a file-format error.
//
//	@ Average number of sialic acids per complex-type glycan
//	$ CS = (nS) // (isComplex)

// ParseFormulaFile reads description/expression pairs from r.
// Duplicate formula names within one file are a hard error.
func ParseFormulaFile(r io.Reader) ([]*Formula, error) {
	var formulas []*Formula
	seen := make(map[string]bool)

	description := ""
	descriptionLine := 0

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue

		case strings.HasPrefix(line, "@"):
			if description != "" {
				return nil, &FileError{
					Line:    descriptionLine,
					Message: fmt.Sprintf("description %q is not followed by an expression", description),
				}
			}
			description = strings.TrimSpace(line[1:])
			descriptionLine = lineNo
			if description == "" {
				return nil, &FileError{Line: lineNo, Message: "empty description"}
			}

		case strings.HasPrefix(line, "$"):
			if description == "" {
				return nil, &FileError{Line: lineNo, Message: "expression without a preceding description"}
			}
			f, err := ParseExpression(strings.TrimSpace(line[1:]))
			if err != nil {
				return nil, &FileError{Line: lineNo, Message: "invalid expression", Err: err}
			}
			if seen[f.Name] {
				return nil, &FileError{
					Line:    lineNo,
					Message: fmt.Sprintf("duplicate formula name %q", f.Name),
				}
			}
			seen[f.Name] = true
			f.Description = description
			formulas = append(formulas, f)
			description = ""

		default:
			return nil, &FileError{
				Line:    lineNo,
				Message: fmt.Sprintf("unexpected line %q (want \"@ description\" or \"$ expression\")", line),
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if description != "" {
		return nil, &FileError{
			Line:    descriptionLine,
			Message: fmt.Sprintf("description %q is not followed by an expression", description),
		}
	}
	return formulas, nil
}

// LoadFile parses a formula file from disk.
func LoadFile(path string) ([]*Formula, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	formulas, err := ParseFormulaFile(f)
	if err != nil {
		var fe *FileError
		if ok := asFileError(err, &fe); ok {
			fe.Path = path
		}
		return nil, err
	}
	return formulas, nil
}

func asFileError(err error, target **FileError) bool {
	fe, ok := err.(*FileError)
	if ok {
		*target = fe
	}
	return ok
}

// Load assembles the working formula set: the built-in defaults first,
// then the user file's formulas appended only when their name is not
// already taken (first-definition-wins). Formulas referencing
// linkage-specific meta-properties are dropped when siaLinkage is off.
//
// userPath may be empty, in which case only the defaults are used.
func Load(userPath string, siaLinkage bool) ([]*Formula, error) {
	out := Defaults()

	if userPath != "" {
		user, err := LoadFile(userPath)
		if err != nil {
			return nil, err
		}
		names := make(map[string]bool, len(out))
		for _, f := range out {
			names[f.Name] = true
		}
		for _, f := range user {
			if names[f.Name] {
				continue
			}
			names[f.Name] = true
			out = append(out, f)
		}
	}

	if !siaLinkage {
		kept := out[:0]
		for _, f := range out {
			if !f.SiaLinkage() {
				kept = append(kept, f)
			}
		}
		out = kept
	}
	return out, nil
}
