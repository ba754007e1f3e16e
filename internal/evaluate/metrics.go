// Package evaluate scores binary classifiers from true labels, predicted
// labels and continuous scores.
package evaluate

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/edakit/internal/dataset"
)

// ConfusionMatrix holds binary outcome counts.
type ConfusionMatrix struct {
	TN, FP, FN, TP int
}

// Confusion tallies yTrue against yPred. Labels must be 0 or 1.
func Confusion(yTrue, yPred []int) (ConfusionMatrix, error) {
	if err := checkLabels(yTrue, len(yPred), "y_pred"); err != nil {
		return ConfusionMatrix{}, err
	}
	if err := checkLabels(yPred, len(yTrue), "y_true"); err != nil {
		return ConfusionMatrix{}, err
	}
	var cm ConfusionMatrix
	for i, t := range yTrue {
		switch {
		case t == 0 && yPred[i] == 0:
			cm.TN++
		case t == 0:
			cm.FP++
		case yPred[i] == 0:
			cm.FN++
		default:
			cm.TP++
		}
	}
	return cm, nil
}

// Accuracy is (TP+TN)/total, NaN for an empty matrix.
func (c ConfusionMatrix) Accuracy() float64 {
	return ratio(c.TP+c.TN, c.TP+c.TN+c.FP+c.FN)
}

// Precision is TP/(TP+FP).
func (c ConfusionMatrix) Precision() float64 { return ratio(c.TP, c.TP+c.FP) }

// Recall is TP/(TP+FN).
func (c ConfusionMatrix) Recall() float64 { return ratio(c.TP, c.TP+c.FN) }

// F1 is the harmonic mean of precision and recall.
func (c ConfusionMatrix) F1() float64 { return ratio(2*c.TP, 2*c.TP+c.FP+c.FN) }

func ratio(a, b int) float64 {
	if b == 0 {
		return math.NaN()
	}
	return float64(a) / float64(b)
}

// String renders the matrix and its four counts with their meaning.
func (c ConfusionMatrix) String() string {
	var b strings.Builder
	b.WriteString("Confusion Matrix\n")
	b.WriteString("C true,predicted\n\n")
	fmt.Fprintf(&b, "[[%d %d]\n [%d %d]]\n\n", c.TN, c.FP, c.FN, c.TP)
	fmt.Fprintf(&b, "true negatives  : true 0, predicted 0: %d\n", c.TN)
	fmt.Fprintf(&b, "false positives : true 0, predicted 1: %d\n", c.FP)
	fmt.Fprintf(&b, "false negatives : true 1, predicted 0: %d\n", c.FN)
	fmt.Fprintf(&b, "true positives  : true 1, predicted 1: %d\n", c.TP)
	return b.String()
}

// Curve is a sequence of (X, Y) points with the score threshold that
// produced each one. ROC curves use X=FPR, Y=TPR; precision-recall curves
// use X=recall, Y=precision.
type Curve struct {
	X, Y       []float64
	Thresholds []float64
}

// ROC computes the receiver operating characteristic with gonum's stat.ROC.
// Points are ordered by increasing false positive rate.
func ROC(yTrue []int, score []float64) (Curve, error) {
	y, classes, err := sorted(yTrue, score)
	if err != nil {
		return Curve{}, err
	}
	tpr, fpr, thresh := stat.ROC(nil, y, classes, nil)
	return Curve{X: fpr, Y: tpr, Thresholds: thresh}, nil
}

// AUC integrates a curve with the trapezoidal rule over X.
func AUC(c Curve) float64 {
	if len(c.X) < 2 {
		return math.NaN()
	}
	return integrate.Trapezoidal(c.X, c.Y)
}

// PrecisionRecall walks the distinct scores from highest to lowest. The
// curve starts at (recall 0, precision 1) and recall never decreases.
func PrecisionRecall(yTrue []int, score []float64) (Curve, error) {
	steps, pos, err := thresholdSteps(yTrue, score)
	if err != nil {
		return Curve{}, err
	}
	c := Curve{X: []float64{0}, Y: []float64{1}, Thresholds: []float64{math.Inf(1)}}
	for _, s := range steps {
		c.X = append(c.X, float64(s.tp)/float64(pos))
		c.Y = append(c.Y, float64(s.tp)/float64(s.tp+s.fp))
		c.Thresholds = append(c.Thresholds, s.threshold)
	}
	return c, nil
}

// AveragePrecision is sum over thresholds of (R_n - R_n-1) * P_n, with
// thresholds taken at each distinct score from highest to lowest.
func AveragePrecision(yTrue []int, score []float64) (float64, error) {
	steps, pos, err := thresholdSteps(yTrue, score)
	if err != nil {
		return 0, err
	}
	ap, prevRecall := 0.0, 0.0
	for _, s := range steps {
		recall := float64(s.tp) / float64(pos)
		precision := float64(s.tp) / float64(s.tp+s.fp)
		ap += (recall - prevRecall) * precision
		prevRecall = recall
	}
	return ap, nil
}

type step struct {
	threshold float64
	tp, fp    int
}

// thresholdSteps returns cumulative tp/fp counts at each distinct score,
// highest first, and the number of positives.
func thresholdSteps(yTrue []int, score []float64) ([]step, int, error) {
	if err := checkScored(yTrue, score); err != nil {
		return nil, 0, err
	}
	idx := make([]int, len(score))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return score[idx[a]] > score[idx[b]] })
	pos := 0
	for _, t := range yTrue {
		pos += t
	}
	if pos == 0 {
		return nil, 0, dataset.NewInvalidInput("y_true", "no positive labels")
	}
	var steps []step
	tp, fp := 0, 0
	for k, i := range idx {
		if yTrue[i] == 1 {
			tp++
		} else {
			fp++
		}
		if k+1 < len(idx) && score[idx[k+1]] == score[i] {
			continue
		}
		steps = append(steps, step{threshold: score[i], tp: tp, fp: fp})
	}
	return steps, pos, nil
}

// sorted converts labels to the ascending-score form stat.ROC expects.
func sorted(yTrue []int, score []float64) ([]float64, []bool, error) {
	if err := checkScored(yTrue, score); err != nil {
		return nil, nil, err
	}
	y := append([]float64(nil), score...)
	classes := make([]bool, len(yTrue))
	pos := 0
	for i, t := range yTrue {
		pos += t
		classes[i] = t == 1
	}
	if pos == 0 || pos == len(yTrue) {
		return nil, nil, dataset.NewInvalidInput("y_true", "ROC needs both classes")
	}
	stat.SortWeightedLabeled(y, classes, nil)
	return y, classes, nil
}

// checkScored validates labels against scores and rejects NaN scores,
// which have no place in a descending threshold order.
func checkScored(yTrue []int, score []float64) error {
	if err := checkLabels(yTrue, len(score), "y_score"); err != nil {
		return err
	}
	for i, s := range score {
		if math.IsNaN(s) {
			return dataset.NewInvalidInput("y_score", "NaN score at row %d", i)
		}
	}
	return nil
}

func checkLabels(y []int, n int, other string) error {
	if len(y) != n {
		return dataset.NewInvalidInput(other, "length %d does not match %d labels", n, len(y))
	}
	if len(y) == 0 {
		return dataset.NewInvalidInput("", "no observations")
	}
	for i, v := range y {
		if v != 0 && v != 1 {
			return dataset.NewInvalidInput("", "label %d at row %d is not 0 or 1", v, i)
		}
	}
	return nil
}
