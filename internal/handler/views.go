package handler

import (
	"github.com/sitecms/internal/db"
	"github.com/sitecms/internal/service"
)

type sectionView struct {
	db.Section
	Data map[string]any `json:"data"`
}

func newSectionView(section db.Section) sectionView {
	return sectionView{Section: section, Data: service.NormalizeSectionData(section.Key, section.Data)}
}

type newsView struct {
	db.News
	ContentHTML string `json:"contentHtml"`
}

func newNewsView(item db.News) newsView {
	return newsView{News: item, ContentHTML: service.RenderMarkdown(item.Content)}
}

type serviceView struct {
	db.Service
	DescriptionHTML string `json:"descriptionHtml"`
}

func newServiceView(item db.Service) serviceView {
	return serviceView{Service: item, DescriptionHTML: service.RenderMarkdown(item.Description)}
}

type projectView struct {
	db.Project
	DescriptionHTML string `json:"descriptionHtml"`
}

func newProjectView(item db.Project) projectView {
	return projectView{Project: item, DescriptionHTML: service.RenderMarkdown(item.Description)}
}

type jobView struct {
	db.Job
	DescriptionHTML string `json:"descriptionHtml"`
}

func newJobView(item db.Job) jobView {
	return jobView{Job: item, DescriptionHTML: service.RenderMarkdown(item.Description)}
}

type aboutView struct {
	db.About
	BodyHTML string `json:"bodyHtml"`
}

func newAboutView(item db.About) aboutView {
	return aboutView{About: item, BodyHTML: service.RenderMarkdown(item.Body)}
}

func identity[T any](item T) T { return item }

func mapViews[T, V any](items []T, view func(T) V) []V {
	out := make([]V, 0, len(items))
	for _, item := range items {
		out = append(out, view(item))
	}
	return out
}

func pageViews[T, V any](page service.PageResult[T], view func(T) V) service.PageResult[V] {
	return service.PageResult[V]{
		Items:      mapViews(page.Items, view),
		Total:      page.Total,
		TotalPages: page.TotalPages,
		Page:       page.Page,
		PerPage:    page.PerPage,
	}
}
