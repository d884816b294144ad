package server

import "turnover-rf/internal/api"

// Axis captions for the scatter chart.
const (
	ChartXLabel = "工作量壓力 (stress_workload_amount)"
	ChartYLabel = "組織風氣-申訴管道壓力 (stress_org_climate_grievance)"
)

// ModelInfo returns the evaluation summary published with the model.
// The figures come from the offline training report and do not depend on the
// loaded artifacts.
func ModelInfo() api.InfoResponse {
	return api.InfoResponse{
		Evaluation: api.Evaluation{
			Recall:  "0.80",
			F1Score: "0.78",
			AUC:     "0.92",
		},
		Dataset: api.DatasetInfo{
			Name:         "北北桃地區員工壓力調查",
			TotalSamples: 1500,
			TrainSize:    1200,
			TestSize:     300,
			Target:       "離職傾向 (turnover_intention)",
		},
		ChartInfo: api.ChartInfo{
			Title: "圖表說明",
			Description: "此散佈圖展示了「工作量壓力」(X軸) 與「組織風氣壓力」(Y軸) 之間的關係。" +
				"每個點代表一個隨機抽樣的員工：<span class='legend-no'>藍點</span>代表無離職傾向，" +
				"<span class='legend-yes'>紅點</span>代表有離職傾向。隨機森林能捕捉非線性的決策邊界。",
		},
	}
}
