package ml

import (
	"errors"
	"fmt"
)

// CustomerRecord is one raw form submission. The surrounding input widget
// enforces the value vocabulary for the categorical fields; Validate
// re-checks the numeric bounds before a record is accepted over the API.
type CustomerRecord struct {
	Gender                        string  `json:"gender"`
	NearLocation                  string  `json:"near_location"`
	Partner                       string  `json:"partner"`
	PromoFriends                  string  `json:"promo_friends"`
	Phone                         string  `json:"phone"`
	GroupVisits                   string  `json:"group_visits"`
	ContractPeriod                int     `json:"contract_period"`
	Age                           int     `json:"age"`
	AvgAdditionalChargesTotal     float64 `json:"avg_additional_charges_total"`
	MonthToEndContract            int     `json:"month_to_end_contract"`
	Lifetime                      int     `json:"lifetime"`
	AvgClassFrequencyTotal        float64 `json:"avg_class_frequency_total"`
	AvgClassFrequencyCurrentMonth float64 `json:"avg_class_frequency_current_month"`
}

// Column names as they appeared in the training frame. The one-hot naming
// scheme and the numeric ordering must stay byte-identical to training,
// otherwise alignment silently zeroes real information.
const (
	colGender       = "gender"
	colNearLocation = "Near_Location"
	colPartner      = "Partner"
	colPromoFriends = "Promo_friends"
	colPhone        = "Phone"
	colGroupVisits  = "Group_visits"

	colContractPeriod       = "Contract_period"
	colAge                  = "Age"
	colAdditionalCharges    = "Avg_additional_charges_total"
	colMonthToEndContract   = "Month_to_end_contract"
	colLifetime             = "Lifetime"
	colClassFrequencyTotal  = "Avg_class_frequency_total"
	colClassFrequencyCurMon = "Avg_class_frequency_current_month"
)

// NumericColumns returns the numeric feature columns in training order.
func NumericColumns() []string {
	return []string{
		colContractPeriod,
		colAge,
		colAdditionalCharges,
		colMonthToEndContract,
		colLifetime,
		colClassFrequencyTotal,
		colClassFrequencyCurMon,
	}
}

func (r CustomerRecord) categoricalValues() []struct{ Column, Value string } {
	return []struct{ Column, Value string }{
		{colGender, r.Gender},
		{colNearLocation, r.NearLocation},
		{colPartner, r.Partner},
		{colPromoFriends, r.PromoFriends},
		{colPhone, r.Phone},
		{colGroupVisits, r.GroupVisits},
	}
}

func (r CustomerRecord) numericValue(column string) (float64, bool) {
	switch column {
	case colContractPeriod:
		return float64(r.ContractPeriod), true
	case colAge:
		return float64(r.Age), true
	case colAdditionalCharges:
		return r.AvgAdditionalChargesTotal, true
	case colMonthToEndContract:
		return float64(r.MonthToEndContract), true
	case colLifetime:
		return float64(r.Lifetime), true
	case colClassFrequencyTotal:
		return r.AvgClassFrequencyTotal, true
	case colClassFrequencyCurMon:
		return r.AvgClassFrequencyCurrentMonth, true
	default:
		return 0, false
	}
}

// Validate checks field presence and the declared numeric bounds.
// Categorical values outside the training vocabulary are not rejected
// here; they encode to all-zero indicators instead.
func (r CustomerRecord) Validate() error {
	for _, cat := range r.categoricalValues() {
		if cat.Value == "" {
			return fmt.Errorf("%s is required", cat.Column)
		}
	}
	if r.ContractPeriod < 1 || r.ContractPeriod > 24 {
		return errors.New("contract_period must be between 1 and 24 months")
	}
	if r.Age < 16 || r.Age > 70 {
		return errors.New("age must be between 16 and 70")
	}
	if r.AvgAdditionalChargesTotal < 0 {
		return errors.New("avg_additional_charges_total must be non-negative")
	}
	if r.MonthToEndContract < 0 || r.MonthToEndContract > 24 {
		return errors.New("month_to_end_contract must be between 0 and 24")
	}
	if r.Lifetime < 1 || r.Lifetime > 60 {
		return errors.New("lifetime must be between 1 and 60 months")
	}
	if r.AvgClassFrequencyTotal < 0 || r.AvgClassFrequencyTotal > 10 {
		return errors.New("avg_class_frequency_total must be between 0 and 10")
	}
	if r.AvgClassFrequencyCurrentMonth < 0 || r.AvgClassFrequencyCurrentMonth > 10 {
		return errors.New("avg_class_frequency_current_month must be between 0 and 10")
	}
	return nil
}
