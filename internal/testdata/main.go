// Package testdata provides simfile fixtures for tests.
package testdata

import (
	"os"
	"path/filepath"
)

// Simfile has a tempo change at beat 16 and a note section that the tempo
// parser must skip.
const Simfile = `#TITLE:Badlands Drill;
#ARTIST:meutraa;
#MUSIC:drill.ogg;
#OFFSET:-0.250;
#BPMS:0.000=120.000
,16.000=150.000;
#STOPS:;
#NOTES:
     dance-single:
     :
     Beginner:
     1:
     0,0,0,0,0:
1000
0100
0010
0001
;
`

// WriteSong writes Simfile into dir as drill.sm and returns its path
func WriteSong(dir string) (string, error) {
	path := filepath.Join(dir, "drill.sm")
	if err := os.WriteFile(path, []byte(Simfile), 0o644); nil != err {
		return "", err
	}
	return path, nil
}
