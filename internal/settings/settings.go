package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"pixelsort/internal/colorattr"
	"pixelsort/internal/mask"
	"pixelsort/internal/sorter"
)

// ErrInvalid marks every configuration problem found by Load.
var ErrInvalid = errors.New("invalid settings")

// DefaultPath is the settings file used when none is given.
const DefaultPath = "settings.txt"

// OutputDirName is the subdirectory of the input directory that receives results.
const OutputDirName = "out"

// lineCount is the number of values in a settings.txt file.
const lineCount = 7

const defaultText = `input //The path where the image(s) are, as well as where the program will output the result
left //The sort direction (Possible values:left,right,down,up)
red //What value to sort by (Possible values:red,green,blue,hue,saturation,value)
0.5 //The lower bound of values (Range: 0.0-1.0) (Anything more than this will get sorted)
1.0 //The upper bound of values (Range: 0.0-1.0) (Anything less than this will get sorted)
red //What value should be used to create the contrast map (Possible values:red,green,blue,hue,saturation,value)
false //Should the program print debug messages and create debug images? (Either true or false)`

// Settings is the resolved, validated configuration of one run.
type Settings struct {
	InputDir   string
	Direction  sorter.Direction
	SortBy     colorattr.Attribute
	Band       mask.Band
	ContrastBy colorattr.Attribute
	Debug      bool

	// Run settings, not part of settings.txt.
	Workers  int
	FailFast bool
}

// Flags holds CLI flag values that override the settings file.
type Flags struct {
	Workers  int
	FailFast bool
}

// fileSettings matches the JSON settings schema. Absent fields keep the
// values of the default settings file.
type fileSettings struct {
	InputPath     *string  `json:"input_path"`
	SortDirection *string  `json:"sort_direction"`
	SortBy        *string  `json:"sort_by"`
	ContrastLower *float64 `json:"contrast_lower"`
	ContrastUpper *float64 `json:"contrast_upper"`
	ContrastType  *string  `json:"contrast_type"`
	Debug         *bool    `json:"debug"`
	Workers       int      `json:"workers"`
	FailFast      bool     `json:"fail_fast"`
}

// values are the seven raw settings before validation.
type values [lineCount]string

const (
	idxInput = iota
	idxDirection
	idxSortBy
	idxLower
	idxUpper
	idxContrast
	idxDebug
)

// WriteDefault writes the default settings.txt to path.
func WriteDefault(path string) error {
	if err := os.WriteFile(path, []byte(defaultText), 0o644); err != nil {
		return fmt.Errorf("settings: write %s: %w", path, err)
	}
	return nil
}

// LoadOrCreate loads path, first writing the default settings there if the
// file does not exist. created reports whether the default was written.
func LoadOrCreate(path string) (s Settings, created bool, err error) {
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		if err := WriteDefault(path); err != nil {
			return Settings{}, false, err
		}
		created = true
	}
	s, err = Load(path)
	return s, created, err
}

// Load reads and validates a settings file. Files ending in .json use the
// JSON schema; anything else is the seven-line text format.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("settings: read %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return parseJSON(path, data)
	}
	return parseText(path, data)
}

func parseText(path string, data []byte) (Settings, error) {
	text := strings.TrimSuffix(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	lines := strings.Split(text, "\n")
	if len(lines) != lineCount {
		return Settings{}, fmt.Errorf("settings: %s has %d lines, want %d (no empty lines at the end); delete it to regenerate the default: %w",
			path, len(lines), lineCount, ErrInvalid)
	}

	var v values
	for i, line := range lines {
		line, _, _ = strings.Cut(line, "//")
		v[i] = strings.TrimSpace(line)
	}
	return v.validate()
}

func parseJSON(path string, data []byte) (Settings, error) {
	var fs fileSettings
	if err := json.Unmarshal(data, &fs); err != nil {
		return Settings{}, fmt.Errorf("settings: parse %s: %v: %w", path, err, ErrInvalid)
	}

	v := defaultValues()
	set := func(i int, p *string) {
		if p != nil {
			v[i] = *p
		}
	}
	set(idxInput, fs.InputPath)
	set(idxDirection, fs.SortDirection)
	set(idxSortBy, fs.SortBy)
	set(idxContrast, fs.ContrastType)
	if fs.ContrastLower != nil {
		v[idxLower] = strconv.FormatFloat(*fs.ContrastLower, 'g', -1, 64)
	}
	if fs.ContrastUpper != nil {
		v[idxUpper] = strconv.FormatFloat(*fs.ContrastUpper, 'g', -1, 64)
	}
	if fs.Debug != nil {
		v[idxDebug] = strconv.FormatBool(*fs.Debug)
	}

	s, err := v.validate()
	if err != nil {
		return Settings{}, err
	}
	s.Workers = fs.Workers
	s.FailFast = fs.FailFast
	return s, nil
}

func defaultValues() values {
	var v values
	for i, line := range strings.Split(defaultText, "\n") {
		line, _, _ = strings.Cut(line, "//")
		v[i] = strings.TrimSpace(line)
	}
	return v
}

func (v values) validate() (Settings, error) {
	var s Settings

	info, err := os.Stat(v[idxInput])
	if v[idxInput] == "" || err != nil || !info.IsDir() {
		return Settings{}, fmt.Errorf("settings: input path %q is not a directory or does not exist: %w", v[idxInput], ErrInvalid)
	}
	if s.InputDir, err = filepath.Abs(v[idxInput]); err != nil {
		return Settings{}, fmt.Errorf("settings: resolve input path %q: %w", v[idxInput], err)
	}

	if s.Direction, err = sorter.ParseDirection(v[idxDirection]); err != nil {
		return Settings{}, fmt.Errorf("settings: sort direction %q is not one of left, right, up, down: %w", v[idxDirection], ErrInvalid)
	}
	if s.SortBy, err = colorattr.Parse(v[idxSortBy]); err != nil {
		return Settings{}, fmt.Errorf("settings: sort by %q is not one of red, green, blue, hue, saturation, value: %w", v[idxSortBy], ErrInvalid)
	}
	if s.Band.Lower, err = parseBound(v[idxLower]); err != nil {
		return Settings{}, fmt.Errorf("settings: contrast lower bound %q is not a number between 0.0 and 1.0: %w", v[idxLower], ErrInvalid)
	}
	if s.Band.Upper, err = parseBound(v[idxUpper]); err != nil {
		return Settings{}, fmt.Errorf("settings: contrast upper bound %q is not a number between 0.0 and 1.0: %w", v[idxUpper], ErrInvalid)
	}
	if s.ContrastBy, err = colorattr.Parse(v[idxContrast]); err != nil {
		return Settings{}, fmt.Errorf("settings: contrast type %q is not one of red, green, blue, hue, saturation, value: %w", v[idxContrast], ErrInvalid)
	}

	switch strings.ToLower(v[idxDebug]) {
	case "true":
		s.Debug = true
	case "false":
	default:
		return Settings{}, fmt.Errorf("settings: debug value %q is not true or false: %w", v[idxDebug], ErrInvalid)
	}

	return s, nil
}

func parseBound(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || f < 0 || f > 1 {
		return 0, fmt.Errorf("%v out of range", f)
	}
	return f, nil
}

// Resolve applies CLI flags and fills run defaults.
func (s *Settings) Resolve(flags Flags) {
	if flags.Workers > 0 {
		s.Workers = flags.Workers
	}
	if flags.FailFast {
		s.FailFast = true
	}
	if s.Workers <= 0 {
		s.Workers = runtime.NumCPU()
	}
}

// OutputDir is where sorted images and debug masks are written.
func (s Settings) OutputDir() string {
	return filepath.Join(s.InputDir, OutputDirName)
}

func (s Settings) String() string {
	return fmt.Sprintf("input=%s direction=%s sort_by=%s contrast=%s [%g, %g] debug=%t workers=%d fail_fast=%t",
		s.InputDir, s.Direction, s.SortBy, s.ContrastBy, s.Band.Lower, s.Band.Upper, s.Debug, s.Workers, s.FailFast)
}
