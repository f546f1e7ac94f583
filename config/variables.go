/*
DESCRIPTION
  variables.go contains a list of structs that provide a variable Name, type in
  a string format, a function for updating the variable in the Config struct
  from a string, and finally, a validation function to check the validity of the
  corresponding field value in the Config.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved. 

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


package config

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ausocean/readbuf/buffer"
	"github.com/ausocean/readbuf/codec/codecutil"
	"github.com/ausocean/readbuf/pool"
	"github.com/ausocean/readbuf/source"
	"github.com/ausocean/utils/logging"
)

// Config map Keys.
const (
	KeyBufferModel      = "BufferModel"
	KeyDelimiter        = "Delimiter"
	KeyEncoding         = "Encoding"
	KeyGrammar          = "Grammar"
	KeyGrowthPolicy     = "GrowthPolicy"
	KeyHeader           = "Header"
	KeyInitialChunkSize = "InitialChunkSize"
	KeyInputPath        = "InputPath"
	KeyLogging          = "logging"
	KeyLogPath          = "LogPath"
	KeyMaxBufferSize    = "MaxBufferSize"
	KeyMetricsAddress   = "MetricsAddress"
	KeyUsesAsync        = "UsesAsync"
)

// Config map parameter types.
const (
	typeString = "string"
	typeUint   = "uint"
	typeBool   = "bool"
)

// Default variable values.
const (
	defaultBufferModel      = ModelWindow
	defaultDelimiter        = ','
	defaultEncoding         = "utf-8"
	defaultGrammar          = codecutil.CSV
	defaultInitialChunkSize = buffer.DefaultSize
	defaultVerbosity        = logging.Info
)

// Variables describes the variables that can be used to configure tokscan.
// These structs provide the name and type of variable, a function for updating
// this variable in a Config, and a function for validating the value of the variable.
var Variables = []struct {
	Name     string
	Type     string
	Update   func(*Config, string)
	Validate func(*Config)
}{
	{
		Name: KeyBufferModel,
		Type: "enum:fixed,mapped,window,chain",
		Update: func(c *Config, v string) {
			c.BufferModel = parseEnum(
				KeyBufferModel,
				v,
				map[string]uint8{
					"fixed":  ModelFixed,
					"mapped": ModelMapped,
					"window": ModelWindow,
					"chain":  ModelChain,
				},
				c,
			)
		},
		Validate: func(c *Config) {
			switch c.BufferModel {
			case ModelFixed, ModelWindow, ModelChain:
			case ModelMapped:
				if c.InputPath == "" {
					c.Logger.Warning("mapped buffer needs an input file, using window")
					c.BufferModel = ModelWindow
				}
			default:
				c.LogInvalidField(KeyBufferModel, defaultBufferModel)
				c.BufferModel = defaultBufferModel
			}
		},
	},
	{
		Name: KeyDelimiter,
		Type: typeString,
		Update: func(c *Config, v string) {
			if v == `\t` {
				v = "\t"
			}
			r, n := utf8.DecodeRuneInString(v)
			if n != len(v) {
				c.Logger.Warning(fmt.Sprintf("expected one character for param %s", KeyDelimiter), "value", v)
				r = 0
			}
			c.Delimiter = r
		},
		Validate: func(c *Config) {
			switch c.Delimiter {
			case 0, utf8.RuneError, '\r', '\n', '"':
				c.LogInvalidField(KeyDelimiter, string(defaultDelimiter))
				c.Delimiter = defaultDelimiter
			}
		},
	},
	{
		Name:   KeyEncoding,
		Type:   typeString,
		Update: func(c *Config, v string) { c.Encoding = strings.TrimSpace(v) },
		Validate: func(c *Config) {
			if _, err := source.Encoding(c.Encoding); err != nil || c.Encoding == "" {
				c.LogInvalidField(KeyEncoding, defaultEncoding)
				c.Encoding = defaultEncoding
			}
		},
	},
	{
		Name:   KeyGrammar,
		Type:   "enum:" + strings.Join(codecutil.Grammars, ","),
		Update: func(c *Config, v string) { c.Grammar = strings.ToLower(v) },
		Validate: func(c *Config) {
			if !codecutil.IsValid(c.Grammar) {
				c.LogInvalidField(KeyGrammar, defaultGrammar)
				c.Grammar = defaultGrammar
			}
		},
	},
	{
		Name: KeyGrowthPolicy,
		Type: "enum:none,linear,exponential",
		Update: func(c *Config, v string) {
			g, err := buffer.ParseGrowth(v)
			if err != nil {
				c.Logger.Warning(fmt.Sprintf("invalid value for %s param", KeyGrowthPolicy), "value", v)
			}
			c.GrowthPolicy = g
		},
	},
	{
		Name:   KeyHeader,
		Type:   typeBool,
		Update: func(c *Config, v string) { c.Header = parseBool(KeyHeader, v, c) },
	},
	{
		Name:   KeyInitialChunkSize,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.InitialChunkSize = parseUint(KeyInitialChunkSize, v, c) },
		Validate: func(c *Config) {
			c.InitialChunkSize = lessThanOrEqual(KeyInitialChunkSize, c.InitialChunkSize, 0, c, defaultInitialChunkSize)
			if c.MaxBufferSize != 0 && c.InitialChunkSize > c.MaxBufferSize {
				c.Logger.Warning("initial chunk size exceeds maximum buffer size, clamping", "max", c.MaxBufferSize)
				c.InitialChunkSize = c.MaxBufferSize
			}
		},
	},
	{
		Name:   KeyInputPath,
		Type:   typeString,
		Update: func(c *Config, v string) { c.InputPath = v },
	},
	{
		Name: KeyLogging,
		Type: "enum:Debug,Info,Warning,Error,Fatal",
		Update: func(c *Config, v string) {
			switch v {
			case "Debug":
				c.LogLevel = logging.Debug
			case "Info":
				c.LogLevel = logging.Info
			case "Warning":
				c.LogLevel = logging.Warning
			case "Error":
				c.LogLevel = logging.Error
			case "Fatal":
				c.LogLevel = logging.Fatal
			default:
				c.Logger.Warning("invalid Logging param", "value", v)
			}
		},
		Validate: func(c *Config) {
			switch c.LogLevel {
			case logging.Debug, logging.Info, logging.Warning, logging.Error, logging.Fatal:
			default:
				c.LogInvalidField("LogLevel", defaultVerbosity)
				c.LogLevel = defaultVerbosity
			}
		},
	},
	{
		Name:   KeyLogPath,
		Type:   typeString,
		Update: func(c *Config, v string) { c.LogPath = v },
	},
	{
		Name:   KeyMaxBufferSize,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.MaxBufferSize = parseUint(KeyMaxBufferSize, v, c) },
		Validate: func(c *Config) {
			if c.MaxBufferSize > pool.MaxLen {
				c.LogInvalidField(KeyMaxBufferSize, 0)
				c.MaxBufferSize = 0
			}
		},
	},
	{
		Name:   KeyMetricsAddress,
		Type:   typeString,
		Update: func(c *Config, v string) { c.MetricsAddress = v },
	},
	{
		Name:   KeyUsesAsync,
		Type:   typeBool,
		Update: func(c *Config, v string) { c.UsesAsync = parseBool(KeyUsesAsync, v, c) },
	},
}

func parseUint(n, v string, c *Config) uint {
	_v, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected unsigned int for param %s", n), "value", v)
	}
	return uint(_v)
}

func parseBool(n, v string, c *Config) (b bool) {
	switch strings.ToLower(v) {
	case "true":
		b = true
	case "false":
		b = false
	default:
		c.Logger.Warning(fmt.Sprintf("expect bool for param %s", n), "value", v)
	}
	return
}

func parseEnum(n, v string, enums map[string]uint8, c *Config) uint8 {
	_v, ok := enums[strings.ToLower(v)]
	if !ok {
		c.Logger.Warning(fmt.Sprintf("invalid value for %s param", n), "value", v)
	}
	return _v
}

func lessThanOrEqual(n string, v, cmp uint, c *Config, def uint) uint {
	if v <= cmp {
		c.LogInvalidField(n, def)
		return def
	}
	return v
}
