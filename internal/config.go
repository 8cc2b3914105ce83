package internal

import (
	"fmt"
	"strings"
)

type Config struct {
	LogLevel       string `env:"LOG_LEVEL,required=true"`
	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	LimitResources *int   `env:"LIMIT_RESOURCES"`
	OutputFormat   string `env:"OUTPUT_FORMAT,default=table"`
	Colours        bool   `env:"COLOURS,default=true"`
	DebugPort      int    `env:"DEBUG_PORT,default=8081"`
}

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

func ParseFormat(str string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(str))); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("OUTPUT_FORMAT must be one of table, json or yaml, got %q", str)
}
