package player

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/pixil98/go-bazaar/internal/storage"
	"github.com/pixil98/go-bazaar/internal/world"
	"golang.org/x/crypto/bcrypt"
)

const startingPurse = 500

var namePattern = regexp.MustCompile(`^[a-zA-Z]{3,16}$`)

// loginFlow walks a fresh connection to a playable character: name,
// password, and for newcomers a race pick that fixes which economy their
// coin belongs to.
type loginFlow struct {
	chars storage.Storer[*world.Character]
	races storage.Storer[*world.Race]
}

// Run returns the character and its identifier (lowercased name).
func (f *loginFlow) Run(rw io.ReadWriter) (*world.Character, string, error) {
	name, err := Prompt(rw, "What is your name? ", WithValidator(
		func(str string) (bool, string) {
			if !namePattern.MatchString(str) {
				return false, "Names are 3-16 letters.\n"
			}
			return true, ""
		},
	), WithMaxTries(3))
	if err != nil {
		return nil, "", err
	}

	charId := strings.ToLower(name)

	char := f.chars.Get(charId)
	if char != nil {
		if err := f.checkPassword(rw, char); err != nil {
			return nil, "", err
		}
	} else {
		char, err = f.createCharacter(rw, name, charId)
		if err != nil {
			return nil, "", err
		}
	}

	// Race references are resolved at login, not at store load, so
	// characters created mid-run don't need a full dictionary pass.
	if err := char.Resolve(f.races); err != nil {
		return nil, "", fmt.Errorf("resolving character %s: %w", charId, err)
	}

	return char, charId, nil
}

func (f *loginFlow) checkPassword(rw io.ReadWriter, char *world.Character) error {
	_, err := Prompt(rw, "Password: ", WithValidator(
		func(str string) (bool, string) {
			if bcrypt.CompareHashAndPassword([]byte(char.Password), []byte(str)) != nil {
				return false, "Wrong password.\n"
			}
			return true, ""
		},
	), WithMaxTries(3))
	return err
}

func (f *loginFlow) createCharacter(rw io.ReadWriter, name, charId string) (*world.Character, error) {
	ok, err := PromptYN(rw, fmt.Sprintf("No one called %s trades here yet. Create them? ", name))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("character creation declined")
	}

	pass, err := Prompt(rw, "Choose a password: ", WithValidator(
		func(str string) (bool, string) {
			if len(str) < 6 {
				return false, "Passwords are at least 6 characters.\n"
			}
			return true, ""
		},
	), WithMaxTries(3))
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	raceId, err := NewSelector(f.races.GetAll()).Prompt(rw, "Choose your race:")
	if err != nil {
		return nil, err
	}

	char := world.NewCharacter(name, string(hash), storage.NewSmartIdentifier[*world.Race](raceId))
	char.Purse = startingPurse

	if err := f.chars.Save(charId, char); err != nil {
		return nil, fmt.Errorf("saving character: %w", err)
	}

	return char, nil
}
