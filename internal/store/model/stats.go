package model

type AssetStats struct {
	Total          int
	TotalByStage   map[string]int
	TotalByStatus  map[string]int
	LinkingActive  int
	TotalReworks   int
	TotalDecisions map[string]int
}

func NewAssetStats() AssetStats {
	return AssetStats{
		TotalByStage:   map[string]int{},
		TotalByStatus:  map[string]int{},
		TotalDecisions: map[string]int{},
	}
}
