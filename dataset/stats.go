package dataset

import (
	"math"
	"sort"
)

// CountBucket is one bar of a categorical count chart.
type CountBucket struct {
	Value int `json:"value"`
	Count int `json:"count"`
}

// HistogramBin is one bin of a numeric histogram; Low is inclusive, High
// exclusive except for the last bin.
type HistogramBin struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// MeanPoint is one group-by bucket with the group key and a mean value.
type MeanPoint struct {
	Key  int     `json:"key"`
	Mean float64 `json:"mean"`
}

// GroupPromoCount counts loyal members per group-visits/promo-friends
// combination.
type GroupPromoCount struct {
	GroupVisits  int `json:"group_visits"`
	PromoFriends int `json:"promo_friends"`
	Count        int `json:"count"`
}

// ScatterPoint is one member in the lifetime-vs-spending scatter.
type ScatterPoint struct {
	Lifetime     int     `json:"lifetime"`
	Charges      float64 `json:"charges"`
	NearLocation int     `json:"near_location"`
}

// ChurnDistribution counts customers per churn outcome.
func ChurnDistribution(rows []Row) []CountBucket {
	return countBy(rows, func(r Row) int { return r.Churn })
}

// CountByNearLocation counts customers per near-location flag.
func CountByNearLocation(rows []Row) []CountBucket {
	return countBy(rows, func(r Row) int { return r.NearLocation })
}

func countBy(rows []Row, key func(Row) int) []CountBucket {
	counts := make(map[int]int)
	for _, row := range rows {
		counts[key(row)]++
	}
	buckets := make([]CountBucket, 0, len(counts))
	for value, count := range counts {
		buckets = append(buckets, CountBucket{Value: value, Count: count})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Value < buckets[j].Value })
	return buckets
}

// AgeHistogram bins customer ages.
func AgeHistogram(rows []Row, bins int) []HistogramBin {
	values := make([]float64, len(rows))
	for i, row := range rows {
		values[i] = float64(row.Age)
	}
	return Histogram(values, bins)
}

// LifetimeHistogram bins membership lifetimes.
func LifetimeHistogram(rows []Row, bins int) []HistogramBin {
	values := make([]float64, len(rows))
	for i, row := range rows {
		values[i] = float64(row.Lifetime)
	}
	return Histogram(values, bins)
}

// ChargesHistogram bins average additional charges.
func ChargesHistogram(rows []Row, bins int) []HistogramBin {
	values := make([]float64, len(rows))
	for i, row := range rows {
		values[i] = row.AvgAdditionalChargesTotal
	}
	return Histogram(values, bins)
}

// Histogram bins values into equal-width bins over [min, max].
func Histogram(values []float64, bins int) []HistogramBin {
	if len(values) == 0 || bins <= 0 {
		return nil
	}
	low, high := values[0], values[0]
	for _, v := range values[1:] {
		low = math.Min(low, v)
		high = math.Max(high, v)
	}
	if low == high {
		return []HistogramBin{{Low: low, High: high, Count: len(values)}}
	}
	width := (high - low) / float64(bins)
	result := make([]HistogramBin, bins)
	for i := range result {
		result[i] = HistogramBin{Low: low + float64(i)*width, High: low + float64(i+1)*width}
	}
	result[bins-1].High = high
	for _, v := range values {
		i := int((v - low) / width)
		if i >= bins {
			i = bins - 1
		}
		result[i].Count++
	}
	return result
}

// MeanLifetimeByContract averages lifetime per contract period.
func MeanLifetimeByContract(rows []Row) []MeanPoint {
	return meanBy(rows, func(r Row) int { return r.ContractPeriod })
}

// MeanLifetimeByAge averages lifetime per age.
func MeanLifetimeByAge(rows []Row) []MeanPoint {
	return meanBy(rows, func(r Row) int { return r.Age })
}

func meanBy(rows []Row, key func(Row) int) []MeanPoint {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, row := range rows {
		k := key(row)
		sums[k] += float64(row.Lifetime)
		counts[k]++
	}
	points := make([]MeanPoint, 0, len(sums))
	for k, sum := range sums {
		points = append(points, MeanPoint{Key: k, Mean: sum / float64(counts[k])})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Key < points[j].Key })
	return points
}

// GroupPromoCounts counts members per group-visits/promo-friends pair.
func GroupPromoCounts(rows []Row) []GroupPromoCount {
	counts := make(map[[2]int]int)
	for _, row := range rows {
		counts[[2]int{row.GroupVisits, row.PromoFriends}]++
	}
	result := make([]GroupPromoCount, 0, len(counts))
	for pair, count := range counts {
		result = append(result, GroupPromoCount{GroupVisits: pair[0], PromoFriends: pair[1], Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].GroupVisits != result[j].GroupVisits {
			return result[i].GroupVisits < result[j].GroupVisits
		}
		return result[i].PromoFriends < result[j].PromoFriends
	})
	return result
}

// LifetimeVsCharges returns the scatter of lifetime against additional
// spending, keyed by near-location for the color split.
func LifetimeVsCharges(rows []Row) []ScatterPoint {
	points := make([]ScatterPoint, len(rows))
	for i, row := range rows {
		points[i] = ScatterPoint{
			Lifetime:     row.Lifetime,
			Charges:      row.AvgAdditionalChargesTotal,
			NearLocation: row.NearLocation,
		}
	}
	return points
}
