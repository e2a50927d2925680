package facade

import "regexp"

// commandPattern recognizes a message as a command: a leading slash, a
// keyword, and the remainder as raw args passed through verbatim (the
// query command treats the whole remainder as one free-text search term,
// so there is nothing downstream to tokenize).
var commandPattern = regexp.MustCompile(`^\s*/(\S+)\s*(.*)$`)

// Command is a parsed /command invocation.
type Command struct {
	Name string
	Args string
}

// ParseCommand matches a message against the command syntax. ok is false if
// the message isn't a command at all.
func ParseCommand(content string) (Command, bool) {
	m := commandPattern.FindStringSubmatch(content)
	if m == nil {
		return Command{}, false
	}
	return Command{Name: m[1], Args: m[2]}, true
}

const (
	cmdQueryShort  = "q"
	cmdQueryLong   = "query"
	cmdDXWorld     = "dxw"
	cmdLoTW        = "lotw"
	cmdQO100Short  = "qo100"
	cmdQO100Long   = "qo-100"
)

func isQueryCommand(name string) bool {
	return name == cmdQueryShort || name == cmdQueryLong
}

func isQO100Command(name string) bool {
	return name == cmdQO100Short || name == cmdQO100Long
}
