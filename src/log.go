package bersim

/*------------------------------------------------------------------
 *
 * Purpose:	Save sweep results to a CSV file.
 *
 * Description:	One line per Eb/No step, ';' separated, with a header
 *		suitable for importing into a spreadsheet or plotting.
 *
 *		There are two alternatives here.
 *
 *		-o file		Specify full file path.  May contain
 *				strftime % sequences, expanded when the
 *				file is opened.  A name ending in .gz is
 *				gzip compressed.
 *
 *		-l dir		Daily names will be created here.
 *
 *		Use one or the other but not both.
 *
 *------------------------------------------------------------------*/

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/gzip"
	"github.com/lestrrat-go/strftime"
)

var csvHeader = []string{"Run", "Model", "Sampling Frec", "Carry Frec", "Bits Num", "Noise", "BER", "EbNo(dB)", "Trials"}

// CSVSink appends sweep records to a CSV file.
type CSVSink struct {
	dailyNames bool
	path       string // Directory when dailyNames, otherwise the file name pattern.
	pattern    *strftime.Strftime // Nil when dailyNames.
	logger     *log.Logger

	// Now is used for daily file names and for expanding the file pattern.  Tests replace it.
	Now func() time.Time

	fp        *os.File
	gz        *gzip.Writer
	w         *csv.Writer
	openFname string
}

/*------------------------------------------------------------------
 *
 * Function:	NewCSVSink
 *
 * Purpose:	Set up a results file.
 *
 * Inputs:	dailyNames	- True if daily names should be generated.
 *				  In this case path is a directory, which
 *				  is created if it doesn't exist.  The parent
 *				  must exist, we don't do "mkdir -p".
 *
 *		path		- File name or pattern, or directory.
 *
 *		logger		- May be nil.
 *
 *------------------------------------------------------------------*/

func NewCSVSink(dailyNames bool, path string, logger *log.Logger) (*CSVSink, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("%w: no results file name", ErrConfiguration)
	}

	var s = &CSVSink{
		dailyNames: dailyNames,
		logger:     orDiscard(logger),
		Now:        time.Now,
	}

	if !dailyNames {
		var pattern, err = strftime.New(path)
		if err != nil {
			return nil, fmt.Errorf("%w: bad results file pattern %q: %w", ErrConfiguration, path, err)
		}

		s.path = path
		s.pattern = pattern

		return s, nil
	}

	var stat, statErr = os.Stat(path)
	if statErr == nil {
		if !stat.IsDir() {
			return nil, fmt.Errorf("%w: results location %q is not a directory", ErrConfiguration, path)
		}
	} else {
		if err := os.Mkdir(path, 0755); err != nil {
			return nil, fmt.Errorf("creating results location %q: %w", path, err)
		}

		s.logger.Info("Results location has been created", "path", path)
	}

	s.path = path

	return s, nil
}

// Path is the file the next open would write to.  The pattern is expanded when the file
// is opened, so the name doesn't change while it stays open.
func (s *CSVSink) Path() string {
	if s.dailyNames {
		return filepath.Join(s.path, s.dailyName())
	}

	return s.pattern.FormatString(s.Now())
}

func (s *CSVSink) Write(r SweepRecord) error {
	if s.dailyNames {
		// Close current file if the date has changed.
		if s.fp != nil && s.dailyName() != s.openFname {
			if err := s.Close(); err != nil {
				return err
			}
		}
	}

	if s.fp == nil {
		if err := s.open(); err != nil {
			return err
		}
	}

	var row = []string{
		r.RunID.String(),
		r.Scheme,
		strconv.Itoa(r.Config.SamplingFrequency),
		strconv.Itoa(r.Config.CarrierFrequency),
		strconv.Itoa(r.Config.BitsNum),
		strconv.FormatFloat(r.Config.NoiseStd, 'f', 3, 64),
		strconv.FormatFloat(r.BER, 'g', -1, 64),
		strconv.FormatFloat(r.EbNoDB, 'g', -1, 64),
		strconv.Itoa(r.Trials),
	}

	if err := s.w.Write(row); err != nil {
		return fmt.Errorf("writing results file %q: %w", s.openFname, err)
	}

	s.w.Flush()

	return s.w.Error()
}

func (s *CSVSink) open() error {
	var fullPath = s.Path()

	// See if file already exists and not empty.
	// This is used later to write a header if it did not exist already.
	var stat, statErr = os.Stat(fullPath)
	var alreadyThere = statErr == nil && stat.Size() > 0

	s.logger.Info("Opening results file", "path", fullPath)

	var f, openErr = os.OpenFile(fullPath, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if openErr != nil {
		return fmt.Errorf("can't open results file %q for write: %w", fullPath, openErr)
	}

	s.fp = f
	s.openFname = filepath.Base(fullPath)

	var out io.Writer = f
	if strings.HasSuffix(fullPath, ".gz") {
		// Appending starts a new gzip member, which readers concatenate.
		s.gz = gzip.NewWriter(f)
		out = s.gz
	}

	s.w = csv.NewWriter(out)
	s.w.Comma = ';'

	if !alreadyThere {
		if err := s.w.Write(csvHeader); err != nil {
			return fmt.Errorf("writing results header: %w", err)
		}
	}

	return nil
}

// Close flushes and closes the current file.  The sink may be written to again afterwards.
func (s *CSVSink) Close() error {
	if s.fp == nil {
		return nil
	}

	s.w.Flush()
	var err = s.w.Error()

	if s.gz != nil {
		if gzErr := s.gz.Close(); err == nil {
			err = gzErr
		}
	}

	if closeErr := s.fp.Close(); err == nil {
		err = closeErr
	}

	s.fp = nil
	s.gz = nil
	s.w = nil
	s.openFname = ""

	return err
}

// Generate the file name from current date, UTC.
func (s *CSVSink) dailyName() string {
	return s.Now().UTC().Format("2006-01-02.csv")
}
