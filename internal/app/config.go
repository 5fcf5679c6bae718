package app

// Config holds the command line settings of one run.
type Config struct {
	InputFile   string
	JumpNumber  uint64 // 0 selects every jump
	DumpType    string // s, d, t, c or p
	SubTypes    string
	Location    string
	ConfigFile  string // YAML settings, overrides $NEPTUNE_CONFIG
	Verbose     bool
	ShowVersion bool
}
