package deck

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	DeckKind               = "deck"
	SupportedSchemaVersion = 1
)

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{2,63}$`)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Card is one study unit. Cards are never mutated after load.
type Card struct {
	ID       int    `yaml:"id" json:"id"`
	Term     string `yaml:"term" json:"term" validate:"required"`
	Content  string `yaml:"content" json:"content" validate:"required"`
	Category string `yaml:"category,omitempty" json:"category,omitempty"`
	Image    string `yaml:"image,omitempty" json:"image,omitempty"`
}

// Deck is the on-disk container for an ordered set of cards.
type Deck struct {
	Kind          string `yaml:"kind" validate:"required"`
	SchemaVersion int    `yaml:"schema_version" validate:"required,gt=0"`
	DeckID        string `yaml:"deck_id" validate:"required"`
	Name          string `yaml:"name" validate:"required"`
	Description   string `yaml:"description"`
	Cards         []Card `yaml:"cards" validate:"required,min=1,dive"`

	Path string `yaml:"-"`
}

func (d Deck) Validate() error {
	if d.Kind != DeckKind {
		return fmt.Errorf("kind must be %q", DeckKind)
	}
	if d.SchemaVersion > SupportedSchemaVersion {
		return fmt.Errorf("unsupported deck schema_version %d (max supported %d)", d.SchemaVersion, SupportedSchemaVersion)
	}
	if len(d.Cards) == 0 {
		return ErrEmptyDeck
	}
	if err := validate.Struct(d); err != nil {
		return describeValidation(err)
	}
	if !idPattern.MatchString(d.DeckID) {
		return fmt.Errorf("invalid deck_id %q", d.DeckID)
	}
	return checkUniqueIDs(d.Cards)
}

func checkUniqueIDs(cards []Card) error {
	seen := make(map[int]struct{}, len(cards))
	for _, c := range cards {
		if _, ok := seen[c.ID]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicateID, c.ID)
		}
		seen[c.ID] = struct{}{}
	}
	return nil
}

// describeValidation turns validator output into the yaml-ish field paths
// deck authors see in their files.
func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		path := strings.TrimPrefix(fe.Namespace(), "Deck.")
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", strings.ToLower(path)))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must contain at least %s item", strings.ToLower(path), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", strings.ToLower(path), fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
