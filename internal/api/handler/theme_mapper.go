package handler

import "github.com/forumhub/forum-api/internal/core/domain"

func toPostResponse(p *domain.Post) postResponse {
	return postResponse{
		ID:        p.ID,
		ThemeID:   p.ThemeID,
		AuthorID:  p.AuthorID,
		Text:      p.Text,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toThemeResponse(t *domain.Theme) themeResponse {
	posts := make([]postResponse, 0, len(t.Posts))
	for i := range t.Posts {
		posts = append(posts, toPostResponse(&t.Posts[i]))
	}
	return themeResponse{
		ID:            t.ID,
		Name:          t.Name,
		CreatedAt:     t.CreatedAt,
		SubscriberIDs: t.SubscriberIDs,
		Posts:         posts,
	}
}

func toThemeSummaryResponse(t *domain.Theme) themeSummaryResponse {
	return themeSummaryResponse{
		ID:            t.ID,
		Name:          t.Name,
		CreatedAt:     t.CreatedAt,
		SubscriberIDs: t.SubscriberIDs,
	}
}
