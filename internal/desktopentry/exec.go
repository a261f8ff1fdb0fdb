package desktopentry

import (
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Characters that force an Exec argument to be quoted.
const reservedChars = " \t\n\"'\\><~|&;$*?#()`"

// EscapeString applies the string-level escapes of the desktop entry format.
func EscapeString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "\n", `\n`, "\t", `\t`, "\r", `\r`)
	return r.Replace(s)
}

// UnescapeString reverses EscapeString. Unknown escapes are kept verbatim.
func UnescapeString(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 's':
			b.WriteByte(' ')
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\':
			b.WriteByte('\\')
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// SplitExec tokenizes a raw Exec value. Field codes such as %U are returned
// as their own tokens and %% stays escaped.
func SplitExec(value string) ([]string, error) {
	return shellquote.Split(UnescapeString(value))
}

// IsFieldCode reports whether tok is a field code like %f or %U.
func IsFieldCode(tok string) bool {
	return len(tok) == 2 && tok[0] == '%' && tok[1] != '%'
}

// QuoteArg turns a literal argument, such as a file path, into Exec syntax.
func QuoteArg(arg string) string {
	return quoteToken(strings.ReplaceAll(arg, "%", "%%"))
}

// quoteToken quotes a token that is already in Exec %-syntax.
func quoteToken(tok string) string {
	if tok != "" && !strings.ContainsAny(tok, reservedChars) {
		return tok
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "`", "\\`", `$`, `\$`)
	return `"` + r.Replace(tok) + `"`
}

// BuildExec returns a raw Exec value running the literal args.
func BuildExec(args ...string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = QuoteArg(a)
	}
	return EscapeString(strings.Join(quoted, " "))
}

// RetargetExec replaces the command part of an Exec value with program,
// keeping everything from the last token that carries a field code, so both
// "AppRun %U" and "AppRun --opt=%U" keep their placeholder. Without a field
// code the whole value is replaced. A value that cannot be tokenized is
// returned unchanged.
func RetargetExec(value, program string) string {
	tokens, err := SplitExec(value)
	if err != nil {
		return value
	}
	last := -1
	for i, tok := range tokens {
		if hasFieldCode(tok) {
			last = i
		}
	}
	if last < 0 {
		return BuildExec(program)
	}
	return joinExec(nil, program, tokens[last:])
}

// ReplaceExecProgram swaps the program of an Exec value and keeps its
// arguments. A leading env and its NAME=value assignments stay in front of
// the new program. A value that cannot be tokenized is returned unchanged.
func ReplaceExecProgram(value, program string) string {
	tokens, err := SplitExec(value)
	if err != nil {
		return value
	}
	prog := programIndex(tokens)
	if prog >= len(tokens) {
		return joinExec(tokens, program, nil)
	}
	return joinExec(tokens[:prog], program, tokens[prog+1:])
}

// programIndex returns the index of the program token, skipping an env
// prefix such as "env FOO=1 BAR=2".
func programIndex(tokens []string) int {
	if len(tokens) == 0 || filepath.Base(tokens[0]) != "env" {
		return 0
	}
	i := 1
	for i < len(tokens) && isAssignment(tokens[i]) {
		i++
	}
	return i
}

func isAssignment(tok string) bool {
	name, _, ok := strings.Cut(tok, "=")
	return ok && name != "" && !strings.HasPrefix(name, "-")
}

// hasFieldCode reports whether tok contains a field code anywhere, skipping
// the %% escape.
func hasFieldCode(tok string) bool {
	for i := 0; i+1 < len(tok); i++ {
		if tok[i] != '%' {
			continue
		}
		if tok[i+1] != '%' {
			return true
		}
		i++
	}
	return false
}

func joinExec(prefix []string, program string, tokens []string) string {
	parts := make([]string, 0, len(prefix)+len(tokens)+1)
	for _, tok := range prefix {
		parts = append(parts, quoteToken(tok))
	}
	parts = append(parts, QuoteArg(program))
	for _, tok := range tokens {
		parts = append(parts, quoteToken(tok))
	}
	return EscapeString(strings.Join(parts, " "))
}
