package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/davidwangsg/PartsBasedDetector/dp"
	"github.com/davidwangsg/PartsBasedDetector/parts"
	"github.com/jvlmdr/go-cv/rimg64"
	"github.com/jvlmdr/go-file/fileutil"
)

func init() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage:", os.Args[0], "[flags] model.json responses.{json,gob}")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Runs the part-tree dynamic program over pre-computed response planes")
		fmt.Fprintln(os.Stderr, "and prints the best candidates.")
		flag.PrintDefaults()
	}
}

// model is the on-disk form of a part tree.
type model struct {
	Root  int          `json:"root"`
	Parts []parts.Part `json:"parts"`
}

// responseFile holds the response planes of one image, in layout
// order, together with the number of pyramid scales.
type responseFile struct {
	Scales int
	Planes []*rimg64.Image
}

func main() {
	var (
		top      = flag.Int("top", 8, "Number of candidates to report; <= 0 for all")
		minScore = flag.Float64("min-score", 0, "Discard candidates scoring below this")
		outFile  = flag.String("o", "", "Save candidates to this file (JSON) instead of printing")
	)
	flag.Parse()
	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}
	modelFile, respFile := flag.Arg(0), flag.Arg(1)

	var m model
	if err := fileutil.LoadExt(modelFile, &m); err != nil {
		log.Fatalln("load model:", err)
	}
	tree, err := parts.NewTree(m.Parts, m.Root)
	if err != nil {
		log.Fatalln("build tree:", err)
	}

	var resp responseFile
	if err := fileutil.LoadExt(respFile, &resp); err != nil {
		log.Fatalln("load responses:", err)
	}

	tables, err := dp.Min(tree, resp.Planes, resp.Scales)
	if err != nil {
		log.Fatalln("sweep:", err)
	}
	cands, err := tables.Candidates(*top)
	if err != nil {
		log.Fatalln("backtrack:", err)
	}
	cands = filterCands(cands, *minScore)
	log.Printf("%d candidates", len(cands))

	if *outFile != "" {
		if err := fileutil.SaveExt(*outFile, cands); err != nil {
			log.Fatalln("save candidates:", err)
		}
		return
	}
	for i, cand := range cands {
		fmt.Printf("%d: score %.4g, scale %d\n", i, cand.Score, cand.Scale)
		for p, loc := range cand.Parts {
			fmt.Printf("\tpart %d: mixture %d at (%d, %d)\n", p, loc.Mixture, loc.X, loc.Y)
		}
	}
}

func filterCands(cands []parts.Candidate, minScore float64) []parts.Candidate {
	var keep []parts.Candidate
	for _, cand := range cands {
		if cand.Score >= minScore {
			keep = append(keep, cand)
		}
	}
	return keep
}
