package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/methodmatch/internal/tabular"
)

const allStyles = "Lean: Design Build,Lean: CMAR,Lean: JOC,Agile: IPD,Agile: P3,Predictive: DBB,Predictive: BOT"

// twoOptionCSV is the minimal Q1 table: A favours Design Build, B favours CMAR
const twoOptionCSV = `question,question_text,answer_text,Lean: Design Build,Lean: CMAR
1,Project type,A,2.0,1.0
1,Project type,B,0.0,3.0
`

// fullCSV covers two questions with every style column and an "Unknown" option
const fullCSV = "question,question_text,answer_text," + allStyles + `
1,Project type,Vertical,1,0,0,0,0,0,0
1,Project type,Horizontal,0,1,0,0,0,0,0
1,Project type,Unknown,0,0,0,0,0,0,0
2,Operations after handover,None,0,0,0,0,0,1,0
2,Operations after handover,Short-term O&M,0,0,1,0,0,0,0
2,Operations after handover,Long-term O&M,0,0,0,0,1,0,0
2,Operations after handover,Finance + Operate,0,0,0,0,0,0,1
`

func readTable(t *testing.T, csv string) *tabular.Table {
	t.Helper()
	tab, err := tabular.ReadCSV(strings.NewReader(csv))
	require.NoError(t, err)
	return tab
}

func mustWeights(t *testing.T, csv string) *WeightTable {
	t.Helper()
	wt, err := LoadWeightTable(readTable(t, csv), DefaultCatalog(), "test.csv")
	require.NoError(t, err)
	return wt
}

func strictCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := DefaultCatalog().WithMissPolicy(MissFail)
	require.NoError(t, err)
	return c
}

// parseTable is readTable for property bodies, which have no *testing.T
func parseTable(csv string) *tabular.Table {
	tab, err := tabular.ReadCSV(strings.NewReader(csv))
	if err != nil {
		return tabular.New()
	}
	return tab
}
