package dto

import (
	"time"

	"cardbox_backend/internal/models"
)

type ProjectImageInput struct {
	URL       string `json:"url" validate:"required,url"`
	SortOrder int    `json:"sortOrder" validate:"omitempty,min=0"`
}

type ProjectLinkInput struct {
	Platform  string `json:"platform" validate:"omitempty,max=40"`
	URL       string `json:"url" validate:"required,url"`
	SortOrder int    `json:"sortOrder" validate:"omitempty,min=0"`
}

type ProjectInput struct {
	Title     string              `json:"title" validate:"required,min=1,max=120"`
	Summary   string              `json:"summary" validate:"omitempty,max=2000"`
	URL       string              `json:"url" validate:"omitempty,url"`
	SortOrder int                 `json:"sortOrder" validate:"omitempty,min=0"`
	Images    []ProjectImageInput `json:"images" validate:"omitempty,max=20,dive"`
	Links     []ProjectLinkInput  `json:"links" validate:"omitempty,max=20,dive"`
}

type CreatePortfolioRequest struct {
	Title    string         `json:"title" validate:"required,min=1,max=120"`
	About    string         `json:"about" validate:"omitempty,max=5000"`
	Status   string         `json:"status" validate:"omitempty,is-publish-status"`
	Projects []ProjectInput `json:"projects" validate:"omitempty,max=50,dive"`
}

type UpdatePortfolioRequest struct {
	Slug     *string         `json:"slug" validate:"omitempty,min=1,max=60"`
	Title    *string         `json:"title" validate:"omitempty,min=1,max=120"`
	About    *string         `json:"about" validate:"omitempty,max=5000"`
	Status   *string         `json:"status" validate:"omitempty,is-publish-status"`
	Projects *[]ProjectInput `json:"projects" validate:"omitempty,max=50,dive"`
}

// PortfolioView has no per-field visibility gating; portfolios are fully
// visible once published.
type PortfolioView struct {
	ID          string                    `json:"id"`
	Slug        string                    `json:"slug"`
	Title       string                    `json:"title"`
	About       string                    `json:"about"`
	Status      models.PublishStatus      `json:"status"`
	PublishedAt *time.Time                `json:"publishedAt"`
	Projects    []models.PortfolioProject `json:"projects"`
	IsOwner     bool                      `json:"isOwner"`
	CreatedAt   time.Time                 `json:"createdAt"`
	UpdatedAt   time.Time                 `json:"updatedAt"`
}

func NewPortfolioView(portfolio *models.Portfolio, isOwner bool) *PortfolioView {
	view := &PortfolioView{
		ID:          portfolio.ID,
		Slug:        portfolio.Slug,
		Title:       portfolio.Title,
		About:       portfolio.About,
		Status:      portfolio.Status,
		PublishedAt: portfolio.PublishedAt,
		Projects:    portfolio.Projects,
		IsOwner:     isOwner,
		CreatedAt:   portfolio.CreatedAt,
		UpdatedAt:   portfolio.UpdatedAt,
	}
	if view.Projects == nil {
		view.Projects = []models.PortfolioProject{}
	}
	return view
}

// ToProjects converts inputs into model rows (ids assigned on insert).
func ToProjects(inputs []ProjectInput) []models.PortfolioProject {
	projects := make([]models.PortfolioProject, 0, len(inputs))
	for _, in := range inputs {
		project := models.PortfolioProject{
			Title:     in.Title,
			Summary:   in.Summary,
			URL:       in.URL,
			SortOrder: in.SortOrder,
		}
		for _, img := range in.Images {
			project.Images = append(project.Images, models.ProjectImage{
				URL:       img.URL,
				SortOrder: img.SortOrder,
			})
		}
		for _, link := range in.Links {
			project.Links = append(project.Links, models.ProjectLink{
				Platform:  link.Platform,
				URL:       link.URL,
				SortOrder: link.SortOrder,
			})
		}
		projects = append(projects, project)
	}
	return projects
}
