package theme

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/saaga0h/sunwall/internal/daylight"
)

// Descriptor file names, in lookup order
var descriptorNames = []string{"theme.json", "theme.yaml", "theme.yml"}

// ErrNoDescriptor is returned when a theme directory has no descriptor file
var ErrNoDescriptor = errors.New("no theme descriptor found")

// Theme describes a set of wallpaper images and when each should be shown
type Theme struct {
	ID  string `json:"-" yaml:"-"`
	Dir string `json:"-" yaml:"-"`

	DisplayName      string `json:"displayName" yaml:"displayName"`
	ImageFilename    string `json:"imageFilename" yaml:"imageFilename"`
	ImageCredits     string `json:"imageCredits" yaml:"imageCredits"`
	SunriseImageList []int  `json:"sunriseImageList" yaml:"sunriseImageList"`
	DayImageList     []int  `json:"dayImageList" yaml:"dayImageList"`
	SunsetImageList  []int  `json:"sunsetImageList" yaml:"sunsetImageList"`
	NightImageList   []int  `json:"nightImageList" yaml:"nightImageList"`
	DayHighlight     *int   `json:"dayHighlight,omitempty" yaml:"dayHighlight,omitempty"`
	NightHighlight   *int   `json:"nightHighlight,omitempty" yaml:"nightHighlight,omitempty"`
}

// Load reads and validates the theme descriptor in dir
func Load(dir string) (*Theme, error) {
	for _, name := range descriptorNames {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read theme descriptor: %w", err)
		}

		t, err := Parse(data, filepath.Ext(name))
		if err != nil {
			return nil, fmt.Errorf("theme %s: %w", path, err)
		}
		t.Dir = dir
		t.ID = filepath.Base(dir)
		if t.DisplayName == "" {
			t.DisplayName = t.ID
		}
		return t, nil
	}

	return nil, fmt.Errorf("%w in %s", ErrNoDescriptor, dir)
}

// Parse decodes a descriptor. ext selects the format (".json", ".yaml", ".yml").
func Parse(data []byte, ext string) (*Theme, error) {
	var t Theme
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("failed to parse theme JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("failed to parse theme YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported theme descriptor format %q", ext)
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate checks the filename pattern and image lists
func (t *Theme) Validate() error {
	if strings.Count(t.ImageFilename, "*") != 1 {
		return fmt.Errorf("imageFilename %q must contain exactly one '*'", t.ImageFilename)
	}
	if strings.ContainsAny(t.ImageFilename, `/\`) {
		return fmt.Errorf("imageFilename %q must not contain a path", t.ImageFilename)
	}

	lists := t.ImageLists()
	if lists.Empty() {
		return daylight.ErrNoImages
	}
	for _, p := range daylight.RotationOrder {
		for _, image := range lists.For(p) {
			if image <= 0 {
				return fmt.Errorf("%s image list contains invalid image number %d", p, image)
			}
		}
	}
	return nil
}

// ImageLists returns the four period lists
func (t *Theme) ImageLists() daylight.ImageLists {
	return daylight.ImageLists{
		Sunrise: t.SunriseImageList,
		Day:     t.DayImageList,
		Sunset:  t.SunsetImageList,
		Night:   t.NightImageList,
	}
}

// ImagePath substitutes image into the filename pattern under the theme directory.
// Existence is not checked.
func (t *Theme) ImagePath(image int) string {
	name := strings.Replace(t.ImageFilename, "*", strconv.Itoa(image), 1)
	return filepath.Join(t.Dir, name)
}

// Exists reports whether the image file is present
func (t *Theme) Exists(image int) bool {
	info, err := os.Stat(t.ImagePath(image))
	return err == nil && !info.IsDir()
}
