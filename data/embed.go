package data

import (
	_ "embed"
)

//go:embed seed.json
var DemoSeed []byte
