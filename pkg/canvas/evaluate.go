package canvas

import "UIAnnotator/internal/entity"

const DefaultIoUThreshold = 0.5

type TagScore struct {
	Tag         entity.Tag `json:"tag"`
	GroundTruth int        `json:"ground_truth"`
	Predicted   int        `json:"predicted"`
	Correct     int        `json:"correct"`
	Precision   float64    `json:"precision"`
	Recall      float64    `json:"recall"`
	F1          float64    `json:"f1"`
}

type Report struct {
	Threshold float64    `json:"iou_threshold"`
	Tags      []TagScore `json:"tags"`
	Total     TagScore   `json:"total"`
}

// Evaluate scores predictions against ground truth tag by tag. Each ground
// truth box is matched to the first unmatched prediction of the same tag
// whose IoU reaches the threshold.
func Evaluate(groundTruth, predictions []entity.Box, tags entity.Vocabulary, threshold float64) Report {
	if threshold <= 0 {
		threshold = DefaultIoUThreshold
	}

	report := Report{Threshold: threshold, Tags: make([]TagScore, 0, len(tags))}
	total := TagScore{Tag: "total"}

	for _, tag := range tags {
		score := matchTag(groundTruth, predictions, tag, threshold)
		score.finish()
		report.Tags = append(report.Tags, score)

		total.GroundTruth += score.GroundTruth
		total.Predicted += score.Predicted
		total.Correct += score.Correct
	}

	total.finish()
	report.Total = total
	return report
}

func matchTag(groundTruth, predictions []entity.Box, tag entity.Tag, threshold float64) TagScore {
	gt := filterTag(groundTruth, tag)
	pred := filterTag(predictions, tag)

	matched := make([]bool, len(pred))
	correct := 0
	for _, g := range gt {
		for j, p := range pred {
			if matched[j] {
				continue
			}
			if IoU(g, p) >= threshold {
				matched[j] = true
				correct++
				break
			}
		}
	}

	return TagScore{
		Tag:         tag,
		GroundTruth: len(gt),
		Predicted:   len(pred),
		Correct:     correct,
	}
}

func filterTag(boxes []entity.Box, tag entity.Tag) []entity.Coordinates {
	var out []entity.Coordinates
	for _, b := range boxes {
		if b.Tag == tag {
			out = append(out, b.Coordinates)
		}
	}
	return out
}

func (s *TagScore) finish() {
	if s.Predicted > 0 {
		s.Precision = float64(s.Correct) / float64(s.Predicted)
	}
	if s.GroundTruth > 0 {
		s.Recall = float64(s.Correct) / float64(s.GroundTruth)
	}
	if s.Precision+s.Recall > 0 {
		s.F1 = 2 * s.Precision * s.Recall / (s.Precision + s.Recall)
	}
}
