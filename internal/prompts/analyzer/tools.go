package analyzer

// Tool is a closed enumeration of the auxiliary tool catalog.
type Tool int

const (
	ToolScriptGenerator Tool = iota + 1
	ToolCampaignBuilder
	ToolPerformancePredictor
	ToolBrandGuidelines
	ToolRepurposing
	ToolStyleTransfer
	ToolStoryboard
	ToolCompetitorAnalysis
	ToolCharacterConsistency
	ToolABTesting
	ToolAnalytics
)

type toolInfo struct {
	name string
	icon string
}

var toolCatalog = map[Tool]toolInfo{
	ToolScriptGenerator:      {name: "Script Generator", icon: "file-text"},
	ToolCampaignBuilder:      {name: "Campaign Builder", icon: "target"},
	ToolPerformancePredictor: {name: "Performance Predictor", icon: "trending-up"},
	ToolBrandGuidelines:      {name: "Brand Guidelines", icon: "shield"},
	ToolRepurposing:          {name: "Repurposing", icon: "repeat"},
	ToolStyleTransfer:        {name: "Style Transfer", icon: "palette"},
	ToolStoryboard:           {name: "Storyboard", icon: "film"},
	ToolCompetitorAnalysis:   {name: "Competitor Analysis", icon: "search"},
	ToolCharacterConsistency: {name: "Character Consistency", icon: "user-check"},
	ToolABTesting:            {name: "A/B Testing", icon: "split"},
	ToolAnalytics:            {name: "Analytics", icon: "bar-chart"},
}

// Tools returns the catalog in declaration order.
func Tools() []Tool {
	out := make([]Tool, 0, len(toolCatalog))
	for t := ToolScriptGenerator; t <= ToolAnalytics; t++ {
		out = append(out, t)
	}
	return out
}

// Name returns the display name of the tool.
func (t Tool) Name() string {
	return toolCatalog[t].name
}

// Icon returns the UI icon tag of the tool.
func (t Tool) Icon() string {
	return toolCatalog[t].icon
}

func (t Tool) String() string {
	if name := t.Name(); name != "" {
		return name
	}
	return "unknown"
}

func recommend(t Tool, priority Priority, reason string) ToolRecommendation {
	return ToolRecommendation{
		ToolName: t.Name(),
		Reason:   reason,
		Priority: priority,
		Icon:     t.Icon(),
		Tool:     t,
	}
}
