package settings

import "fmt"

const (
	CmdName = "ioprofile"

	// StdinPath selects standard input as the capture.
	StdinPath = "-"
)

var (
	// ConfigFileExample is the file name suggested in help texts.
	ConfigFileExample = fmt.Sprintf("%s.yaml", CmdName)
)
