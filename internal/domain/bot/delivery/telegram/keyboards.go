package telegram

import (
	"fmt"

	"github.com/go-telegram/bot/models"

	"github.com/shred03/filestore-bot/internal/domain/bot/entities"
)

// Callback data prefixes. Everything after a prefix is validated before use;
// callback data is attacker-reachable input.
const (
	callbackCheckJoin = "check_join_"
	callbackPostPick  = "post_pick_"
	callbackPostPage  = "post_page_"
	callbackNoop      = "noop"
)

func mainMenuKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "🏠 Home", CallbackData: "home"},
				{Text: "ℹ️ About", CallbackData: "about"},
			},
			{
				{Text: "💬 Support", CallbackData: "support"},
				{Text: "🔍 Commands", CallbackData: "commands"},
			},
		},
	}
}

// gateKeyboard offers a join button per gating channel plus a recheck
// action carrying the token being redeemed.
func gateKeyboard(gates []entities.GatingChannel, token string) *models.InlineKeyboardMarkup {
	var rows [][]models.InlineKeyboardButton
	for _, gate := range gates {
		rows = append(rows, []models.InlineKeyboardButton{
			{Text: "Join Channel", URL: gate.JoinURL()},
		})
	}
	rows = append(rows, []models.InlineKeyboardButton{
		{Text: "✅ I've Joined", CallbackData: callbackCheckJoin + token},
	})
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// movieListKeyboard builds one button per search result, plus a pagination
// row when the search spans multiple pages.
func movieListKeyboard(sessionID string, result *entities.MovieSearchResult) *models.InlineKeyboardMarkup {
	var rows [][]models.InlineKeyboardButton
	for _, movie := range result.Movies {
		rows = append(rows, []models.InlineKeyboardButton{
			{
				Text:         fmt.Sprintf("%s (%s)", movie.Title, releaseYear(movie.ReleaseDate)),
				CallbackData: fmt.Sprintf("%s%s_%d", callbackPostPick, sessionID, movie.ID),
			},
		})
	}
	if result.TotalPages > 1 {
		rows = append(rows, paginationRow(sessionID, result.Page, result.TotalPages))
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func paginationRow(sessionID string, page, totalPages int) []models.InlineKeyboardButton {
	var row []models.InlineKeyboardButton
	if page > 1 {
		row = append(row, models.InlineKeyboardButton{
			Text:         "◀️ Previous",
			CallbackData: fmt.Sprintf("%s%s_%d", callbackPostPage, sessionID, page-1),
		})
	}
	row = append(row, models.InlineKeyboardButton{
		Text:         fmt.Sprintf("%d/%d", page, totalPages),
		CallbackData: callbackNoop,
	})
	if page < totalPages {
		row = append(row, models.InlineKeyboardButton{
			Text:         "Next ▶️",
			CallbackData: fmt.Sprintf("%s%s_%d", callbackPostPage, sessionID, page+1),
		})
	}
	return row
}

func downloadKeyboard(downloadLink string) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: "𝐃𝐨𝐰𝐧𝐥𝐨𝐚𝐝 𝐍𝐨𝐰", URL: downloadLink}},
		},
	}
}

func releaseYear(releaseDate string) string {
	if len(releaseDate) < 4 {
		return "N/A"
	}
	return releaseDate[:4]
}
