// Package generation is the client for the third-party text-generation
// endpoint. Every semantic wrapper expects a fixed "KEY: value" grammar
// from the returned text; a response that does not match is treated the
// same as a failed call. Callers decide how to degrade, usually with
// the Fallback helpers in this package.
package generation

//go:generate mockgen -destination=mock/mock_client.go -package=generationmock github.com/Alily223/red-knight/internal/clients/generation Client

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/Alily223/red-knight/internal/entities/game"
	"github.com/Alily223/red-knight/internal/errors"
)

// Client wraps the raw text endpoint with the game's generation
// vocabulary. Wrappers return an Unavailable error when the remote call
// fails or its response cannot be parsed.
type Client interface {
	// Generate forwards a prompt verbatim and returns the raw text.
	Generate(ctx context.Context, prompt string) (string, error)

	Character(ctx context.Context, seed string) (*CharacterData, error)
	Location(ctx context.Context, seed string) (game.Place, error)
	Class(ctx context.Context, seed string) (*ClassData, error)
	Item(ctx context.Context, seed string) (game.Item, error)
	Resource(ctx context.Context, seed string) (string, error)
	Craft(ctx context.Context, resources []ResourceAmount) (game.CraftedItem, error)
	Perk(ctx context.Context, seed string) (game.Perk, error)
}

// CharacterData is a generated character identity
type CharacterData struct {
	Name       string `json:"name"`
	Appearance string `json:"appearance"`
}

// ClassData is a generated character class
type ClassData struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ResourceAmount pairs a resource name with how many units go into a craft
type ResourceAmount struct {
	Name   string `json:"name"`
	Amount int    `json:"amount"`
}

// CombinationKey canonicalizes a resource multiset into the sorted,
// comma-joined "name:amount" key used to memoize crafted recipes
func CombinationKey(resources []ResourceAmount) string {
	parts := make([]string, 0, len(resources))
	for _, r := range resources {
		amount := r.Amount
		if amount <= 0 {
			amount = 1
		}
		parts = append(parts, r.Name+":"+strconv.Itoa(amount))
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

// Response grammars. Generation output is untrusted free text.
var (
	characterPattern = regexp.MustCompile(`(?i)NAME:\s*(.*);\s*APPEARANCE:\s*([^\n]+)`)
	namedPattern     = regexp.MustCompile(`(?i)NAME:\s*(.*);\s*DESCRIPTION:\s*([^\n]+)`)
	resourcePattern  = regexp.MustCompile(`(?i)NAME:\s*([^\n;]+)`)
	craftPattern     = regexp.MustCompile(`(?i)NAME:\s*(.*);\s*DESCRIPTION:\s*([^;]+);\s*WEIGHT:\s*(\d+)`)
	perkPattern      = regexp.MustCompile(`(?i)NAME:\s*(.*);\s*DESCRIPTION:\s*([^;]+);\s*STAT:\s*(.*?);\s*TYPE:\s*(percentage|number);\s*VALUE:\s*(\d+)`)
)

func errUnparseable() error {
	return errors.Unavailable("generation response did not match the expected format")
}

type client struct {
	text   TextClient
	roller dice.Roller
}

// Config contains the dependencies for the generation client
type Config struct {
	// Text is the raw prompt-in/text-out backend
	Text TextClient
	// Roller picks item weights
	Roller dice.Roller
}

// Validate checks the config
func (cfg *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if cfg.Text == nil {
		vb.RequiredField("Text")
	}
	if cfg.Roller == nil {
		vb.RequiredField("Roller")
	}
	return vb.Build()
}

// New creates a generation client
func New(cfg *Config) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &client{text: cfg.Text, roller: cfg.Roller}, nil
}

func (c *client) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", errors.InvalidArgument("prompt is required")
	}
	return c.text.Generate(ctx, prompt)
}

func withSeed(base, seed string) string {
	if seed == "" {
		return base
	}
	return base + " Seed: " + seed
}

func (c *client) Character(ctx context.Context, seed string) (*CharacterData, error) {
	prompt := withSeed(
		`Generate a random fantasy RPG character in the format "NAME: <name>; APPEARANCE: <appearance>".`,
		seed,
	)
	text, err := c.text.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	m := characterPattern.FindStringSubmatch(text)
	if m == nil {
		return nil, errUnparseable()
	}
	return &CharacterData{
		Name:       strings.TrimSpace(m[1]),
		Appearance: strings.TrimSpace(m[2]),
	}, nil
}

func (c *client) Location(ctx context.Context, seed string) (game.Place, error) {
	prompt := withSeed(
		`Generate a unique fantasy location in the format "NAME: <name>; DESCRIPTION: <description>".`,
		seed,
	)
	text, err := c.text.Generate(ctx, prompt)
	if err != nil {
		return game.Place{}, err
	}
	m := namedPattern.FindStringSubmatch(text)
	if m == nil {
		return game.Place{}, errUnparseable()
	}
	return game.Place{
		Name:        strings.TrimSpace(m[1]),
		Description: strings.TrimSpace(m[2]),
	}, nil
}

func (c *client) Class(ctx context.Context, seed string) (*ClassData, error) {
	prompt := withSeed(
		`Generate a fantasy RPG character class in the format "NAME: <name>; DESCRIPTION: <description>".`,
		seed,
	)
	text, err := c.text.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	m := namedPattern.FindStringSubmatch(text)
	if m == nil {
		return nil, errUnparseable()
	}
	return &ClassData{
		Name:        strings.TrimSpace(m[1]),
		Description: strings.TrimSpace(m[2]),
	}, nil
}

func (c *client) Item(ctx context.Context, seed string) (game.Item, error) {
	prompt := withSeed(
		`Generate a unique fantasy item in the format "NAME: <name>; DESCRIPTION: <description>".`,
		seed,
	)
	text, err := c.text.Generate(ctx, prompt)
	if err != nil {
		return game.Item{}, err
	}
	m := namedPattern.FindStringSubmatch(text)
	if m == nil {
		return game.Item{}, errUnparseable()
	}
	return game.Item{
		Name:        strings.TrimSpace(m[1]),
		Description: strings.TrimSpace(m[2]),
		// Weight is always rolled locally, 1-5
		Weight: rollIndex(c.roller, 5) + 1,
	}, nil
}

func (c *client) Resource(ctx context.Context, seed string) (string, error) {
	prompt := withSeed(
		`Generate a brand new crafting resource for a fantasy game in the format "NAME: <name>".`,
		seed,
	)
	text, err := c.text.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	m := resourcePattern.FindStringSubmatch(text)
	if m == nil {
		return "", errUnparseable()
	}
	return strings.TrimSpace(m[1]), nil
}

func (c *client) Craft(ctx context.Context, resources []ResourceAmount) (game.CraftedItem, error) {
	if len(resources) == 0 {
		return game.CraftedItem{}, errors.InvalidArgument("resources are required")
	}

	names := make([]string, 0, len(resources))
	for _, r := range resources {
		amount := r.Amount
		if amount <= 0 {
			amount = 1
		}
		names = append(names, strconv.Itoa(amount)+" "+r.Name)
	}
	prompt := "Craft an item using these materials: " + strings.Join(names, ", ") +
		`. Respond in the format "NAME: <name>; DESCRIPTION: <description>; WEIGHT: <number>".`

	text, err := c.text.Generate(ctx, prompt)
	if err != nil {
		return game.CraftedItem{}, err
	}
	m := craftPattern.FindStringSubmatch(text)
	if m == nil {
		return game.CraftedItem{}, errUnparseable()
	}
	weight, convErr := strconv.Atoi(m[3])
	if convErr != nil || weight < 1 {
		weight = 1
	}
	return game.CraftedItem{
		Name:        strings.TrimSpace(m[1]),
		Description: strings.TrimSpace(m[2]),
		Weight:      weight,
	}, nil
}

func (c *client) Perk(ctx context.Context, seed string) (game.Perk, error) {
	prompt := withSeed(
		`Generate a RPG perk in the format "NAME: <name>; DESCRIPTION: <description>; STAT: <stat>; TYPE: <percentage|number>; VALUE: <value>".`,
		seed,
	)
	text, err := c.text.Generate(ctx, prompt)
	if err != nil {
		return game.Perk{}, err
	}
	m := perkPattern.FindStringSubmatch(text)
	if m == nil {
		return game.Perk{}, errUnparseable()
	}
	value, convErr := strconv.Atoi(m[5])
	if convErr != nil {
		return game.Perk{}, errUnparseable()
	}
	return game.Perk{
		Name:        strings.TrimSpace(m[1]),
		Description: strings.TrimSpace(m[2]),
		Stat:        strings.ToLower(strings.TrimSpace(m[3])),
		Type:        strings.ToLower(strings.TrimSpace(m[4])),
		Value:       value,
		Level:       1,
	}, nil
}
