package store

import "planboard/internal/model"

// Seed returns the demo project list a fresh workspace starts with.
func Seed() *DB {
	e := func(week int, code string, cat model.Category) model.TimelineEntry {
		return model.TimelineEntry{Week: week, Code: code, Category: cat}
	}
	return &DB{
		Version: 1,
		Projects: []model.Project{
			{
				ID: "p1", KZL: "HOY", Status: model.StatusAuftrag, StatusInfo: "Rohbau abgeschlossen",
				Location: "Hoyerswerda", Name: "Neubau Kita Regenbogen", Trade: "HLS",
				Client: "Stadt Hoyerswerda", Submission: "15.01.", OrderNo: "P-24017",
				Total: 486500, Lead: "JD", Staff: "MK",
				Timeline: []model.TimelineEntry{
					e(3, "FM", model.CategoryExecution),
					e(4, "FM", model.CategoryExecution),
					e(5, "FM", model.CategoryExecution),
					e(9, "IBN", model.CategoryMilestone),
					e(11, "ABN", model.CategoryMilestone),
				},
			},
			{
				ID: "p2", KZL: "DD", Status: model.StatusAngebot, StatusInfo: "Nachtrag angefragt",
				Location: "Dresden", Name: "Sanierung Gymnasium Bürgerwiese", Trade: "L",
				Client: "Landeshauptstadt Dresden", Submission: "28.02.", OrderNo: "A-25003",
				Total: 1250000, Lead: "TS", Staff: "RB",
				Timeline: []model.TimelineEntry{
					e(6, "ANG", model.CategoryPlanning),
					e(8, "x", model.CategoryInfo),
				},
			},
			{
				ID: "p3", KZL: "BLN", Status: model.StatusAnfrage,
				Location: "Berlin", Name: "Bürogebäude Spreeufer", Trade: "HLS",
				Client: "Spreeufer Projekt GmbH", Submission: "10.03.", OrderNo: "A-25011",
				Total: 2140000, Lead: "JD", Staff: "SW",
				Timeline: []model.TimelineEntry{
					e(10, "ANG", model.CategoryPlanning),
				},
			},
			{
				ID: "p4", KZL: "BZ", Status: model.StatusErledigt, StatusInfo: "Schlussrechnung offen",
				Location: "Bautzen", Name: "Pflegeheim Am Schloss", Trade: "S",
				Client: "Diakonie Oberlausitz", Submission: "", OrderNo: "P-23044",
				Total: 312800, Lead: "MK", Staff: "KL",
				Timeline: []model.TimelineEntry{
					e(1, "ABN", model.CategoryMilestone),
				},
			},
			{
				ID: "p5", KZL: "GR", Status: model.StatusRechnung,
				Location: "Görlitz", Name: "Umbau Stadthalle", Trade: "HLS",
				Client: "Kulturservice Görlitz", Submission: "", OrderNo: "P-22090",
				Total: 975300, Lead: "TS", Staff: "PD",
				Timeline: []model.TimelineEntry{
					e(2, "x", model.CategoryWarning),
				},
			},
		},
	}
}
