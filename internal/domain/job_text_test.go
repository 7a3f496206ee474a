package domain_test

import (
	"testing"

	"go-jobboard-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSalary(t *testing.T) {
	tests := []struct {
		in       string
		min, max int64
		currency string
	}{
		{"₹80,000", 80000, 0, "INR"},
		{"$50k - $70k", 50000, 70000, "USD"},
		{"1,00,000-1,50,000 INR", 100000, 150000, "INR"},
		{"5-8 LPA", 500000, 800000, "INR"},
		{"Rs. 45000 per month", 45000, 0, "INR"},
		{"€40k", 40000, 0, "EUR"},
		{"£90,000 - £60,000", 60000, 90000, "GBP"},
		{"120000", 120000, 0, ""},
		{"₹80,000 + 10% bonus", 80000, 0, "INR"},
		{"₹80,000 per month, 5 days a week", 80000, 0, "INR"},
		{"₹80,000 (2 interviews)", 80000, 0, "INR"},
		{"₹80,000/month", 80000, 0, "INR"},
		{"Rs. 40,000 to Rs. 60,000", 40000, 60000, "INR"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r := domain.ParseSalary(tt.in)
			require.NotNil(t, r)
			assert.Equal(t, tt.min, r.Min)
			assert.Equal(t, tt.max, r.Max)
			assert.Equal(t, tt.currency, r.Currency)
		})
	}

	assert.Nil(t, domain.ParseSalary("Competitive"))
	assert.Nil(t, domain.ParseSalary(""))
}

func TestParseExperience(t *testing.T) {
	tests := []struct {
		in       string
		min, max int
	}{
		{"0-2 years", 0, 2},
		{"3+ years", 3, -1},
		{"1+ yrs", 1, -1},
		{"5 years", 5, 5},
		{"4 to 6 years", 4, 6},
		{"Entry Level", 0, 2},
		{"Fresher", 0, 2},
		{"Junior", 0, 2},
		{"Mid Level", 3, 4},
		{"Intermediate", 3, 4},
		{"Senior", 5, -1},
		{"Lead Engineer", 5, -1},
		{"Mid-Senior", 5, -1},
		{"Junior to Mid", 3, 4},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r := domain.ParseExperience(tt.in)
			require.NotNil(t, r)
			assert.Equal(t, tt.min, r.MinYears)
			assert.Equal(t, tt.max, r.MaxYears)
		})
	}

	assert.Nil(t, domain.ParseExperience(""))
	assert.Nil(t, domain.ParseExperience("flexible"))
	assert.Nil(t, domain.ParseExperience("International"))
}
