// Package seed provides the default site content.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sitecms/internal/service"
	"go.uber.org/zap"
)

// Report counts the records created per entity.
type Report map[string]int

// Total returns the number of records created.
func (r Report) Total() int {
	total := 0
	for _, n := range r {
		total += n
	}
	return total
}

// Run 写入默认内容，每类数据只在为空时创建。
func Run(ctx context.Context, svcs *service.Services, logger *zap.Logger) (Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	report := Report{}

	steps := []struct {
		name string
		fn   func(context.Context, *service.Services) (int, error)
	}{
		{"sections", seedSections},
		{"services", seedServices},
		{"projects", seedProjects},
		{"testimonials", seedTestimonials},
		{"jobs", seedJobs},
		{"news", seedNews},
		{"channels", seedChannels},
		{"about", seedAbout},
	}
	for _, step := range steps {
		n, err := step.fn(ctx, svcs)
		if err != nil {
			return report, fmt.Errorf("seed %s: %w", step.name, err)
		}
		if n > 0 {
			report[step.name] = n
			logger.Debug("seeded content", zap.String("entity", step.name), zap.Int("created", n))
		}
	}
	return report, nil
}

func seedSections(ctx context.Context, svcs *service.Services) (int, error) {
	existing, err := svcs.Sections.ListAll(ctx)
	if err != nil || len(existing) > 0 {
		return 0, err
	}

	data := map[string]map[string]any{
		"hero": {
			"heading":    "Software that moves your business forward",
			"subheading": "We design, build and run digital products for ambitious teams.",
			"ctaLabel":   "Talk to us",
			"ctaHref":    "#contact",
		},
		"about": {
			"heading":    "About us",
			"highlights": []string{"Founded in 2012", "40+ engineers", "120 shipped projects"},
		},
		"services":     {"heading": "What we do", "limit": 6},
		"products":     {"heading": "Selected work", "limit": 6},
		"news":         {"heading": "Latest news", "limit": 3},
		"testimonials": {"heading": "Clients on working with us", "limit": 6},
		"careers":      {"heading": "Join the team", "limit": 10},
		"contact": {
			"heading": "Get in touch",
			"email":   "hello@example.com",
			"phone":   "+1 555 0100",
			"address": "1 Market Street, San Francisco",
		},
	}

	created := 0
	for _, key := range service.KnownSectionKeys() {
		raw, err := json.Marshal(data[key])
		if err != nil {
			return created, err
		}
		if _, err := svcs.Sections.Create(ctx, service.SectionInput{Key: key, Data: raw}); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func seedServices(ctx context.Context, svcs *service.Services) (int, error) {
	existing, err := svcs.Catalog.List(ctx, false)
	if err != nil || len(existing) > 0 {
		return 0, err
	}

	inputs := []service.ServiceInput{
		{Title: "Product Engineering", Icon: "code", Description: "Web and mobile applications built with a strong focus on quality and delivery speed."},
		{Title: "Cloud & DevOps", Icon: "cloud", Description: "Infrastructure as code, CI/CD pipelines and cost-aware cloud operations."},
		{Title: "Data & AI", Icon: "chart", Description: "Data platforms, analytics and pragmatic machine learning in production."},
	}
	for i, input := range inputs {
		if _, err := svcs.Catalog.Create(ctx, input); err != nil {
			return i, err
		}
	}
	return len(inputs), nil
}

func seedProjects(ctx context.Context, svcs *service.Services) (int, error) {
	existing, err := svcs.Projects.List(ctx, false, false)
	if err != nil || len(existing) > 0 {
		return 0, err
	}

	featured := true
	inputs := []service.ProjectInput{
		{Title: "Atlas Logistics", Category: "Platform", Summary: "Real-time fleet tracking for 3,000 vehicles.", Featured: &featured},
		{Title: "Nimbus Banking", Category: "Fintech", Summary: "A mobile-first retail banking experience.", Featured: &featured},
		{Title: "Harbor CMS", Category: "Product", Summary: "A headless CMS for marketing teams."},
	}
	for i, input := range inputs {
		if _, err := svcs.Projects.Create(ctx, input); err != nil {
			return i, err
		}
	}
	return len(inputs), nil
}

func seedTestimonials(ctx context.Context, svcs *service.Services) (int, error) {
	existing, err := svcs.Testimonials.List(ctx, false)
	if err != nil || len(existing) > 0 {
		return 0, err
	}

	inputs := []service.TestimonialInput{
		{Author: "Maria Chen", Role: "CTO", Company: "Atlas Logistics", Quote: "They shipped in weeks what we had planned for a year."},
		{Author: "Jonas Berg", Role: "Head of Product", Company: "Nimbus", Quote: "A partner that cares about outcomes, not hours."},
	}
	for i, input := range inputs {
		if _, err := svcs.Testimonials.Create(ctx, input); err != nil {
			return i, err
		}
	}
	return len(inputs), nil
}

func seedJobs(ctx context.Context, svcs *service.Services) (int, error) {
	existing, err := svcs.Jobs.List(ctx, false)
	if err != nil || len(existing) > 0 {
		return 0, err
	}

	inputs := []service.JobInput{
		{Title: "Senior Backend Engineer", Department: "Engineering", Location: "Remote", EmploymentType: "full-time", ApplyEmail: "jobs@example.com", Description: "Design and operate services in Go."},
		{Title: "Product Design Intern", Department: "Design", Location: "San Francisco", EmploymentType: "internship", ApplyEmail: "jobs@example.com"},
	}
	for i, input := range inputs {
		if _, err := svcs.Jobs.Create(ctx, input); err != nil {
			return i, err
		}
	}
	return len(inputs), nil
}

func seedNews(ctx context.Context, svcs *service.Services) (int, error) {
	existing, err := svcs.News.ListAll(ctx, 1, 1)
	if err != nil || existing.Total > 0 {
		return 0, err
	}

	published := time.Now().UTC().Add(-24 * time.Hour)
	_, err = svcs.News.Create(ctx, service.NewsInput{
		Title:       "We moved into a new office",
		Content:     "Our team has grown and so has our home. Come and visit us downtown.",
		PublishedAt: &published,
	})
	if err != nil {
		return 0, err
	}
	return 1, nil
}

func seedChannels(ctx context.Context, svcs *service.Services) (int, error) {
	existing, err := svcs.Channels.List(ctx, true)
	if err != nil || len(existing) > 0 {
		return 0, err
	}

	inputs := []service.ChannelInput{
		{Platform: "email", Label: "Email", Value: "hello@example.com", Link: "mailto:hello@example.com", Icon: "mail"},
		{Platform: "phone", Label: "Phone", Value: "+1 555 0100", Link: "tel:+15550100", Icon: "phone"},
		{Platform: "linkedin", Label: "LinkedIn", Value: "example", Link: "https://www.linkedin.com/company/example", Icon: "linkedin"},
	}
	for i, input := range inputs {
		if _, err := svcs.Channels.Create(ctx, input); err != nil {
			return i, err
		}
	}
	return len(inputs), nil
}

func seedAbout(ctx context.Context, svcs *service.Services) (int, error) {
	current, err := svcs.About.Get(ctx)
	if err != nil || current.ID != 0 {
		return 0, err
	}

	_, err = svcs.About.Save(ctx, service.AboutInput{
		Heading: "About us",
		Body:    "We are a product studio of engineers and designers.\n\nWe partner with companies to build software that lasts.",
		Mission: "Make good software the default.",
		Vision:  "Every team has a reliable technology partner.",
	})
	if err != nil {
		return 0, err
	}
	return 1, nil
}
