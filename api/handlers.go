package api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/graceworks/concord/core"
)

// defaultLimit is how many results a search returns when the request does
// not say. Oversized limits are clamped by the search layer.
const defaultLimit = 10

type searchResult struct {
	Book            string  `json:"book"`
	Chapter         int     `json:"chapter"`
	Verse           int     `json:"verse"`
	Text            string  `json:"text"`
	TranslationCode string  `json:"translationCode"`
	Score           float32 `json:"score"`
}

type searchResponse struct {
	Results     []searchResult `json:"results"`
	Count       int            `json:"count"`
	Translation string         `json:"translation"`
}

type translationsResponse struct {
	Translations []string `json:"translations"`
	Primary      string   `json:"primary"`
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// handleSearch answers GET /search?q=&translation=&limit=. Parameters are
// validated before the engine is touched; a blank query is a valid request
// with an empty result.
func (s *Server) handleSearch(c *fiber.Ctx) error {
	limit := defaultLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: %q is not an integer", core.ErrInvalidLimit, raw)
		}
		if err := core.ValidateLimit(parsed); err != nil {
			return err
		}
		limit = parsed
	}

	code := s.primary
	if raw := c.Query("translation"); raw != "" {
		code = core.NormalizeTranslationCode(raw)
		if err := core.ValidateTranslationCode(code); err != nil {
			return err
		}
	}

	term := strings.TrimSpace(c.Query("q"))

	hits, err := s.searcher.FindSimilarIn(c.UserContext(), term, code, limit)
	if err != nil {
		return err
	}

	results := make([]searchResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, searchResult{
			Book:            hit.Ref.Book,
			Chapter:         hit.Ref.Chapter,
			Verse:           hit.Ref.Verse,
			Text:            hit.Text,
			TranslationCode: hit.Translation,
			Score:           hit.Score,
		})
	}

	return c.JSON(searchResponse{
		Results:     results,
		Count:       len(results),
		Translation: code,
	})
}

// handleTranslations answers GET /translations with the locally available
// document codes and the primary corpus translation.
func (s *Server) handleTranslations(c *fiber.Ctx) error {
	codes, err := s.source.List()
	if err != nil {
		return err
	}
	return c.JSON(translationsResponse{
		Translations: codes,
		Primary:      s.primary,
	})
}
