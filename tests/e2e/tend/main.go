package main

import (
	"os"

	"github.com/mattsolo1/grove-tend/pkg/app"
	"github.com/mattsolo1/grove-tend/pkg/harness"
)

func main() {
	allScenarios := []*harness.Scenario{
		FeedbackReportScenario,
		LocalSignInScenario,
		VersionScenario,
		DevServerScenario,
		DemoSessionTUIScenario,
	}

	if err := app.Execute(nil, allScenarios); err != nil {
		os.Exit(1)
	}
}
