package scene

import (
	"fmt"
	"sort"
	"strings"
)

// SceneInfo describes a built-in scene
type SceneInfo struct {
	ID          string `json:"id" yaml:"id"`                   // Unique identifier
	DisplayName string `json:"displayName" yaml:"displayName"` // Human readable name
	Description string `json:"description" yaml:"description"` // Optional description
}

type builtinScene struct {
	description string
	create      func() *Setup
}

var builtinScenes = map[string]builtinScene{
	"sphere": {
		description: "Smoothed tissue sphere in air",
		create:      NewSphereScene,
	},
	"layer-stack": {
		description: "Epidermis, dermis and subcutis slabs sharing their interfaces",
		create:      NewLayerStackScene,
	},
	"glass_lens": {
		description: "Clear glass ball embedded in a water tank",
		create:      NewLensScene,
	},
}

// ListScenes returns the built-in scenes sorted by display name
func ListScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtinScenes))
	for id, s := range builtinScenes {
		scenes = append(scenes, SceneInfo{
			ID:          id,
			DisplayName: titleCase(id),
			Description: s.description,
		})
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})
	return scenes
}

// NewBuiltinScene builds the built-in scene with the given ID
func NewBuiltinScene(id string) (*Setup, error) {
	s, ok := builtinScenes[id]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q", id)
	}
	return s.create(), nil
}

// titleCase converts a scene ID to a display name
func titleCase(s string) string {
	// Replace hyphens and underscores with spaces
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	// Title case each word
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
