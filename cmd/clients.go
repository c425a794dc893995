package cmd

import (
	"github.com/torii-cli/torii/anilist"
	"github.com/torii-cli/torii/mangadex"
	"github.com/torii-cli/torii/token"
)

// Keyring namespaces for the tracker integrations.
const (
	anilistIntegration  = "anilist"
	mangadexIntegration = "mangadex"
)

func anilistClient() *anilist.Client {
	return anilist.New(token.Keyring(anilistIntegration))
}

func mangadexClient() *mangadex.Client {
	return mangadex.New(token.Keyring(mangadexIntegration))
}
