// Package segment maps one customer's raw attributes to a cluster and a
// human-readable segment description using previously fitted artifacts.
package segment

// FeatureNames is the column order the scaler and the model were fit on.
// Changing it does not fail loudly; predictions silently become meaningless.
var FeatureNames = []string{
	"Age",
	"Income",
	"Total_Spending",
	"NumWebPurchases",
	"NumStorePurchases",
	"NumWebVisitsMonth",
	"Recency",
}

// NumFeatures is the arity of every assembled feature vector.
const NumFeatures = 7

// FeatureRecord is the unscaled input to a prediction.
type FeatureRecord struct {
	Age               float64 `json:"age"`
	Income            float64 `json:"income"`
	TotalSpending     float64 `json:"total_spending"`
	NumWebPurchases   float64 `json:"num_web_purchases"`
	NumStorePurchases float64 `json:"num_store_purchases"`
	NumWebVisitsMonth float64 `json:"num_web_visits_month"`
	Recency           float64 `json:"recency"`
}

// Vector assembles the record in FeatureNames order.
func (r FeatureRecord) Vector() []float64 {
	return []float64{
		r.Age,
		r.Income,
		r.TotalSpending,
		r.NumWebPurchases,
		r.NumStorePurchases,
		r.NumWebVisitsMonth,
		r.Recency,
	}
}
