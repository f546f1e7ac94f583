/*
DESCRIPTION
  config.go contains the configuration settings for tokscan, the buffer it
  reads through and the grammar it applies.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved. 

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package config holds the settings that select how input is buffered and
// tokenised.
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/ausocean/readbuf/buffer"
	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Enums to define buffer models.
const (
	// Indicates no option has been set.
	NothingDefined = iota

	ModelFixed  // Whole input read into one pooled array.
	ModelMapped // Input file memory-mapped.
	ModelWindow // Pooled sliding window.
	ModelChain  // Chain of pooled chunks.
)

// Config provides parameters relevant to a tokscan run. A new config must
// be passed to Validate before use, which defaults unset or bad fields.
type Config struct {
	// Logger holds an implementation of the Logger interface as defined in
	// the logging package. This must be set for Validate and Update to log.
	Logger logging.Logger

	// InitialChunkSize is the size in units of the first window or chunk.
	InitialChunkSize uint

	// MaxBufferSize bounds the size in units of any one window or chunk.
	// Zero means the largest size the pool will lend.
	MaxBufferSize uint

	GrowthPolicy buffer.Growth // Chunk size policy for the chain model.
	UsesAsync    bool          // Tokenise in a goroutine of its own.

	// BufferModel selects one of ModelFixed, ModelMapped, ModelWindow or
	// ModelChain.
	BufferModel uint8

	Grammar   string // A grammar named in codecutil.
	InputPath string // File to read. Empty means standard input.
	Encoding  string // Character encoding of the input.
	Delimiter rune   // Field delimiter for the csv grammar.
	Header    bool   // Treat the first csv row as a header.

	LogLevel int8   // One of the logging package levels.
	LogPath  string // Rolling log file. Empty logs to standard error only.

	// MetricsAddress is the address pool metrics are served on. Empty
	// disables the metrics server.
	MetricsAddress string
}

// Validate checks for any errors in the config fields and defaults settings
// if particular parameters have not been defined.
func (c *Config) Validate() error {
	for _, v := range Variables {
		if v.Validate != nil {
			v.Validate(c)
		}
	}
	return nil
}

// Update takes a map of configuration variable names and their corresponding
// values, parses the string values and converting into correct type, and then
// sets the config struct fields as appropriate.
func (c *Config) Update(vars map[string]string) {
	for _, value := range Variables {
		if v, ok := vars[value.Name]; ok && value.Update != nil {
			value.Update(c, v)
		}
	}
}

// Load reads a YAML mapping of variable names to values from r and applies
// it with Update.
func (c *Config) Load(r io.Reader) error {
	var doc map[string]interface{}
	err := yaml.NewDecoder(r).Decode(&doc)
	if err != nil && err != io.EOF {
		return errors.Wrap(err, "could not decode config")
	}
	vars := make(map[string]string, len(doc))
	for k, v := range doc {
		if v == nil {
			continue
		}
		vars[k] = fmt.Sprint(v)
	}
	c.Update(vars)
	return nil
}

// LoadFile applies the YAML config file at path with Load.
func (c *Config) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "could not open config file")
	}
	defer f.Close()
	return c.Load(f)
}

func (c *Config) LogInvalidField(name string, def interface{}) {
	c.Logger.Info(name+" bad or unset, defaulting", name, def)
}
