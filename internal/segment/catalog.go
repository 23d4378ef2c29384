package segment

import (
	"fmt"
	"sort"
	"strings"
)

// UnknownSegment is returned for any cluster id the catalog does not know.
const UnknownSegment = "Unknown Segment"

// Built-in cluster ids of the trained six-cluster configuration.
const (
	ClusterPremiumSeniors     = 0
	ClusterBrowsingBudgeters  = 1
	ClusterOmnichannelActives = 2
	ClusterDormantLowSpenders = 3
	ClusterLoyalInStoreBuyers = 4
	ClusterYoungBigSpenders   = 5
)

// Segment binds one cluster id to its description.
type Segment struct {
	Cluster int    `json:"cluster" yaml:"cluster"`
	Label   string `json:"label" yaml:"label"`
}

// Catalog is a closed cluster id -> label table. The zero value resolves
// every id to UnknownSegment.
type Catalog struct {
	labels map[int]string
}

// DefaultCatalog returns the hand-authored labels for the six trained clusters.
func DefaultCatalog() Catalog {
	return Catalog{labels: map[int]string{
		ClusterPremiumSeniors:     "Premium Seniors – Older (~70), wealthy, high spenders, prefer in-store",
		ClusterBrowsingBudgeters:  "Browsing Budgeters – Middle-aged, low income, frequent browsers, minimal spend",
		ClusterOmnichannelActives: "Omnichannel Actives – Late middle-aged, mid-high income, frequent online & store buyers",
		ClusterDormantLowSpenders: "Dormant Low Spenders – Middle-aged, low spenders, long time since last purchase",
		ClusterLoyalInStoreBuyers: "Loyal In-Store Buyers – Older, wealthy, heavy in-store shoppers, recent buyers",
		ClusterYoungBigSpenders:   "Young Big Spenders – Younger, very wealthy, highest spenders, prefer in-store",
	}}
}

// NewCatalog builds a catalog from explicit entries. Ids must be non-negative
// and unique and labels must be non-empty.
func NewCatalog(entries []Segment) (Catalog, error) {
	labels := make(map[int]string, len(entries))
	for i, entry := range entries {
		label := strings.TrimSpace(entry.Label)
		if entry.Cluster < 0 {
			return Catalog{}, fmt.Errorf("segment: entry %d: cluster id must be >= 0", i)
		}
		if label == "" {
			return Catalog{}, fmt.Errorf("segment: entry %d: label is required", i)
		}
		if _, dup := labels[entry.Cluster]; dup {
			return Catalog{}, fmt.Errorf("segment: entry %d: duplicate cluster id %d", i, entry.Cluster)
		}
		labels[entry.Cluster] = label
	}
	return Catalog{labels: labels}, nil
}

// Label resolves a cluster id, falling back to UnknownSegment.
func (c Catalog) Label(cluster int) string {
	label, ok := c.labels[cluster]
	if !ok {
		return UnknownSegment
	}
	return label
}

// Has reports whether the id has its own entry.
func (c Catalog) Has(cluster int) bool {
	_, ok := c.labels[cluster]
	return ok
}

// Len returns the number of mapped clusters.
func (c Catalog) Len() int {
	return len(c.labels)
}

// Segments lists the entries ordered by cluster id.
func (c Catalog) Segments() []Segment {
	out := make([]Segment, 0, len(c.labels))
	for id, label := range c.labels {
		out = append(out, Segment{Cluster: id, Label: label})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Cluster < out[j].Cluster })
	return out
}

// Covers returns the ids in [0, n) that have no entry.
func (c Catalog) Covers(n int) []int {
	var missing []int
	for id := 0; id < n; id++ {
		if !c.Has(id) {
			missing = append(missing, id)
		}
	}
	return missing
}
