package usecase

import "resume-service/internal/model"

func sampleContent() model.Content {
	return model.Content{
		PersonalInfo: model.PersonalInfo{
			Name:     "Ada Lovelace",
			Title:    "Principal Engineer",
			Subtitle: "Engineer focused on analytical engines and reliable systems.",
			Email:    "ada@example.com",
			Phone:    "+44 20 7946 0000",
			LinkedIn: "adalovelace",
			GitHub:   "https://github.com/ada",
		},
		Experiences: []model.Experience{
			{
				Company:      "Babbage & Co",
				Role:         "Staff Engineer",
				Period:       "2019 - Present",
				Location:     "London",
				Description:  "Led the engine programme.",
				Highlights:   []string{"Wrote the first published algorithm"},
				Technologies: []string{"Go", "PostgreSQL"},
				Order:        2,
			},
			{
				Company: "Analytical Society",
				Role:    "Software Engineer",
				Period:  "2015 - 2019",
				Order:   1,
			},
		},
		Education: []model.Education{
			{School: "University of London", Degree: "BSc Mathematics", Period: "2011 - 2015", Order: 1},
		},
		Skills: []model.Skill{
			{Name: "Kubernetes", Order: 3},
			{Name: "Go", Category: "languages", Order: 1},
			{Name: "SQL", Order: 2},
		},
	}
}
