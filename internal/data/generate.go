package data

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
)

// GenerateSensorCSV writes a synthetic per-unit sensor dataset with a
// planted failure mechanism. The file carries the pathologies the
// pipeline has to survive: missing readings, a constant column, a pair
// of near-duplicate sensors and a timestamp column, plus a "Pass/Fail"
// target in {-1, 1} where -1 marks a failed unit.
func GenerateSensorCSV(n int, failRate float64, outPath string, rng *rand.Rand) error {
	if n <= 0 {
		return errors.Newf("invalid row count %d", n)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "create output dir")
		}
	}
	f, err := os.Create(outPath)
	if err != nil {
		return errors.Wrap(err, "create output file")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	const sensors = 12
	header := []string{"UnitID", "Timestamp"}
	for j := 0; j < sensors; j++ {
		header = append(header, fmt.Sprintf("Sensor%02d", j+1))
	}
	header = append(header, "ChamberID", "Pass/Fail")
	if err := w.Write(header); err != nil {
		return errors.Wrap(err, "write header")
	}

	base := time.Now().AddDate(0, -1, 0)
	for i := 0; i < n; i++ {
		// Sensors 1-3 drive the failure mechanism; a unit drifts when
		// they run hot together.
		drift := rng.Float64()
		fail := drift > 1-failRate || (drift > 0.8 && rng.Float64() < 0.25)

		vals := make([]float64, sensors)
		for j := range vals {
			vals[j] = rng.NormFloat64()
		}
		if fail {
			vals[0] += 2.0 + rng.Float64()
			vals[1] += 1.5 + rng.Float64()
			vals[2] -= 1.0 + rng.Float64()
		}
		vals[3] = 0.75                                  // stuck gauge, constant column
		vals[4] = vals[0]*0.98 + 0.01*rng.NormFloat64() // near-duplicate of Sensor01

		rec := []string{
			"U" + strconv.Itoa(100000+i),
			base.Add(time.Duration(i) * time.Minute).Format(time.RFC3339),
		}
		for j, v := range vals {
			// Sensor10 drops readings often enough to be filtered out.
			missing := 0.02
			if j == 9 {
				missing = 0.7
			}
			if rng.Float64() < missing {
				rec = append(rec, "")
			} else {
				rec = append(rec, strconv.FormatFloat(v, 'f', 4, 64))
			}
		}
		rec = append(rec, "C"+strconv.Itoa(rng.Intn(4)+1))
		target := "1"
		if fail {
			target = "-1"
		}
		rec = append(rec, target)
		if err := w.Write(rec); err != nil {
			return errors.Wrap(err, "write row")
		}
	}
	return nil
}
