package app

import "propertyhub/internal/flow"

// eligibilityQuestions is the production questionnaire for the quick-sale
// eligibility check. Dangerous options disqualify once confirmed; skip
// directives route around questions that no longer apply.
func eligibilityQuestions() []flow.Question {
	return []flow.Question{
		{
			ID:      "ownership",
			Prompt:  "Do you own the property you want to sell?",
			Section: "property",
			Options: []flow.Option{
				{Value: "sole", Label: "Yes, I am the sole owner"},
				{Value: "joint", Label: "Yes, jointly with someone else"},
				{Value: "no", Label: "No", Dangerous: true,
					Description: "We can only help registered owners of the property."},
			},
		},
		{
			ID:      "property_type",
			Prompt:  "What type of property is it?",
			Section: "property",
			Options: []flow.Option{
				{Value: "house", Label: "House"},
				{Value: "flat", Label: "Flat or apartment"},
				{Value: "bungalow", Label: "Bungalow"},
				{Value: "other", Label: "Something else"},
			},
		},
		{
			ID:      "occupancy",
			Prompt:  "Who lives in the property at the moment?",
			Section: "property",
			Options: []flow.Option{
				{Value: "me", Label: "I live there"},
				{Value: "tenants", Label: "Tenants"},
				{Value: "empty", Label: "It is empty", SkipTo: "mortgage"},
			},
		},
		{
			ID:      "notice_given",
			Prompt:  "If tenants live there, have they been given notice?",
			Section: "property",
			Options: []flow.Option{
				{Value: "yes", Label: "Yes"},
				{Value: "no", Label: "Not yet"},
				{Value: "na", Label: "Not applicable"},
			},
		},
		{
			ID:      "mortgage",
			Prompt:  "Is there a mortgage on the property?",
			Section: "finance",
			Options: []flow.Option{
				{Value: "yes", Label: "Yes"},
				{Value: "no", Label: "No", SkipTo: "timeline"},
			},
		},
		{
			ID:      "arrears",
			Prompt:  "Are the mortgage payments up to date?",
			Section: "finance",
			Options: []flow.Option{
				{Value: "current", Label: "Yes, fully up to date"},
				{Value: "behind", Label: "No, the account is in arrears"},
				{Value: "repossession", Label: "A repossession order has been issued",
					Dangerous:   true,
					Description: "We cannot proceed once repossession proceedings have started."},
			},
		},
		{
			ID:      "timeline",
			Prompt:  "How quickly do you need to complete the sale?",
			Section: "sale",
			Options: []flow.Option{
				{Value: "asap", Label: "As soon as possible"},
				{Value: "three_months", Label: "Within three months"},
				{Value: "browsing", Label: "Just exploring options", SkipTo: flow.SkipToComplete},
			},
		},
		{
			ID:      "legal_disputes",
			Prompt:  "Is the property subject to any ongoing legal dispute?",
			Section: "sale",
			Options: []flow.Option{
				{Value: "none", Label: "No"},
				{Value: "boundary", Label: "A boundary or access dispute"},
				{Value: "insolvency", Label: "Bankruptcy or insolvency proceedings",
					Dangerous:   true,
					Description: "Properties caught up in insolvency proceedings are outside our remit."},
			},
		},
	}
}
