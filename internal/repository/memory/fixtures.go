package memory

import (
	"github.com/commt/commitments/internal/domain"
	"github.com/shopspring/decimal"
)

// SeedCommitments returns the demo commitments shown on the detail page.
func SeedCommitments() []*domain.Commitment {
	return []*domain.Commitment{
		{
			Slug:            "1",
			ID:              "CMT-ABC123",
			Type:            domain.TypeBalanced,
			Amount:          decimal.NewFromInt(100000),
			DurationDays:    60,
			MaxLossPercent:  decimal.NewFromInt(8),
			Status:          domain.StatusActive,
			CreatedAt:       "2024-01-15",
			ExpiresAt:       "2024-03-15",
			CurrentValue:    decimal.NewFromInt(102000),
			ComplianceScore: 95,
			ComplianceData: []domain.ComplianceSample{
				{Date: "Jan 15", ComplianceScore: 100},
				{Date: "Jan 20", ComplianceScore: 98},
				{Date: "Jan 25", ComplianceScore: 97},
				{Date: "Jan 30", ComplianceScore: 95},
				{Date: "Feb 4", ComplianceScore: 96},
				{Date: "Feb 9", ComplianceScore: 95},
				{Date: "Feb 14", ComplianceScore: 95},
			},
		},
		{
			Slug:            "2",
			ID:              "CMT-XYZ789",
			Type:            domain.TypeSafe,
			Amount:          decimal.NewFromInt(50000),
			DurationDays:    30,
			MaxLossPercent:  decimal.NewFromInt(2),
			Status:          domain.StatusActive,
			CreatedAt:       "2024-01-20",
			ExpiresAt:       "2024-02-20",
			CurrentValue:    decimal.NewFromInt(50100),
			ComplianceScore: 100,
			ComplianceData: []domain.ComplianceSample{
				{Date: "Jan 20", ComplianceScore: 100},
				{Date: "Jan 23", ComplianceScore: 100},
				{Date: "Jan 26", ComplianceScore: 100},
				{Date: "Jan 29", ComplianceScore: 100},
				{Date: "Feb 1", ComplianceScore: 100},
				{Date: "Feb 4", ComplianceScore: 100},
				{Date: "Feb 7", ComplianceScore: 100},
			},
		},
	}
}

// SeedListings returns the demo marketplace listings in display order.
func SeedListings() []*domain.Listing {
	return []*domain.Listing{
		{
			ID: "001", Type: domain.TypeSafe, Score: 95,
			Amount: "$50,000", Duration: "25 days", Yield: "5.2%", MaxLoss: "2%",
			Owner: "0x742d35Cc6634C0532925a3b844Bc454e4438f44e", Price: "$52,000", ForSale: true,
		},
		{
			ID: "002", Type: domain.TypeBalanced, Score: 88,
			Amount: "$100,000", Duration: "45 days", Yield: "12.5%", MaxLoss: "8%",
			Owner: "0x8626f6940E2eb28930eFb4CeF49B2d1F2C9C1199", Price: "$105,000", ForSale: true,
		},
		{
			ID: "003", Type: domain.TypeAggressive, Score: 76,
			Amount: "$250,000", Duration: "80 days", Yield: "18.7%", MaxLoss: "100%",
			Owner: "0xdD2FD4581271e230360230F9337D5c0430Bf44C0", Price: "$—", ForSale: false,
		},
	}
}
