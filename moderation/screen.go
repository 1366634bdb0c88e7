package moderation

import (
	"log/slog"

	"github.com/abadojack/whatlanggo"
)

// Screened is the content as it will be stored and broadcast.
type Screened struct {
	Content       string
	CensoredWords []string
	Language      string
}

// Screener runs every outgoing text through the moderator and tags its language.
type Screener struct {
	moderator Moderator
	log       *slog.Logger
}

func NewScreener(moderator Moderator, log *slog.Logger) *Screener {
	return &Screener{moderator: moderator, log: log}
}

func (s *Screener) Screen(content string) Screened {
	if content == "" {
		return Screened{}
	}
	sanitized, words := s.moderator.Censor(content)
	lang := whatlanggo.Detect(content).Lang.Iso6391()
	if len(words) > 0 {
		s.log.Debug("Content censored", "words", len(words), "lang", lang)
	}
	return Screened{Content: sanitized, CensoredWords: words, Language: lang}
}

// NewScreenerFromDictionary loads the embedded blacklists and builds a ready Screener.
func NewScreenerFromDictionary(censoredChar rune, log *slog.Logger) (*Screener, error) {
	data, err := NewCensoredLoader(CensoredFolder).LoadAll("censored")
	if err != nil {
		return nil, err
	}
	log.Info("Censored dictionaries loaded", "languages", data.Languages, "words", len(data.Words))
	moderator, err := NewModerator(data.Words, censoredChar, log)
	if err != nil {
		return nil, err
	}
	return NewScreener(moderator, log), nil
}
