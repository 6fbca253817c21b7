package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// authorize returns an HTTP client for the Google APIs using the token saved by 'authorise'.
func authorize(credentials string, scopes []string, tokens string) (*http.Client, error) {
	config, err := oauthConfig(credentials, scopes)
	if err != nil {
		return nil, err
	}

	file := tokensFile(credentials, tokens)
	token, err := tokenFromFile(file)
	if err != nil {
		return nil, fmt.Errorf("no authorisation token in %v - run '%v authorise' first (%w)", file, APP, err)
	}

	return config.Client(context.Background(), token), nil
}

func oauthConfig(credentials string, scopes []string) (*oauth2.Config, error) {
	b, err := os.ReadFile(credentials)
	if err != nil {
		return nil, err
	}

	return google.ConfigFromJSON(b, scopes...)
}

// tokensFile is <tokens>/<credentials name>.tokens
func tokensFile(credentials, tokens string) string {
	_, file := filepath.Split(credentials)
	name := strings.TrimSuffix(file, filepath.Ext(file))

	return filepath.Join(tokens, fmt.Sprintf("%s.tokens", name))
}

// Retrieves a token from a local file.
func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}

	defer f.Close()

	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, err
	}

	return token, nil
}

// Saves a token to a file path.
func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to cache OAuth token (%w)", err)
	}

	defer f.Close()

	return json.NewEncoder(f).Encode(token)
}
