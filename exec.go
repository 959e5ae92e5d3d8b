package pixkit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/esimov/pixkit/utils"
	"github.com/klauspost/compress/zip"
	"golang.org/x/term"
)

// maxWorkers sets the maximum number of concurrently running workers.
const maxWorkers = 20

// Ops describes the source and destination of an execution.
// Src may be a file, a directory, a URL or PipeName for stdin.
// Dst may be a file, a directory, a .zip archive or PipeName for stdout.
type Ops struct {
	Src, Dst, PipeName string
	Workers            int
	// Out receives the status messages, os.Stderr when nil.
	Out io.Writer
}

// result holds the outcome of processing one file.
type result struct {
	path string
	name string
	data []byte
	err  error
}

func (op *Ops) out() io.Writer {
	if op.Out == nil {
		return os.Stderr
	}
	return op.Out
}

// Execute processes a single image or, when the source is a directory, every supported
// image below it using a pool of workers. The batch results go to a directory or,
// when Dst ends in .zip, to a single archive. It returns an error when any image failed.
func (p *Processor) Execute(ctx context.Context, op *Ops) error {
	now := time.Now()
	if p.Spinner != nil {
		p.Spinner.Start()
		defer p.Spinner.Stop()
	}

	var err error
	switch {
	case utils.IsValidUrl(op.Src):
		err = op.download(ctx, p)
	case op.Src == op.PipeName:
		err = op.process(p, op.Src, op.Dst)
		op.printOpStatus(op.Dst, err)
	default:
		var fs os.FileInfo
		if fs, err = os.Stat(op.Src); err != nil {
			return fmt.Errorf("failed to load the source image: %w", err)
		}
		if fs.IsDir() {
			err = op.batch(ctx, p)
		} else {
			err = op.process(p, op.Src, op.Dst)
			op.printOpStatus(op.Dst, err)
		}
	}
	if err == nil {
		fmt.Fprintf(op.out(), "\nExecution time: %s\n", utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage))
	}
	return err
}

func (op *Ops) download(ctx context.Context, p *Processor) error {
	src, err := utils.DownloadImage(ctx, op.Src, p.MaxBytes)
	if err != nil {
		return fmt.Errorf("failed to load the source image: %w", err)
	}
	defer func() {
		src.Close()
		os.Remove(src.Name())
	}()

	dst, err := op.openDst(op.Dst)
	if err != nil {
		return err
	}
	err = p.Process(src, dst)
	closeFile(dst, err)
	op.printOpStatus(op.Dst, err)
	return err
}

func (op *Ops) batch(ctx context.Context, p *Processor) error {
	archive := strings.EqualFold(filepath.Ext(op.Dst), ".zip")

	var zw *zip.Writer
	if archive {
		f, err := os.Create(op.Dst)
		if err != nil {
			return fmt.Errorf("unable to create the archive: %w", err)
		}
		defer f.Close()
		zw = zip.NewWriter(f)
	} else if err := os.MkdirAll(op.Dst, 0755); err != nil {
		return fmt.Errorf("unable to create the destination directory: %w", err)
	}

	workers := op.Workers
	// Limit the concurrently running workers to maxWorkers.
	if workers <= 0 || workers > maxWorkers {
		workers = runtime.NumCPU()
	}

	ch := make(chan result)
	done := make(chan struct{})
	defer close(done)

	paths, errc := walkDir(done, op.Src, Extensions)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			op.consumer(ctx, p, archive, ch, done, paths)
		}()
	}

	// Close the channel after the values are consumed.
	go func() {
		defer close(ch)
		wg.Wait()
	}()

	var total, failed int
	for res := range ch {
		total++
		if res.err == nil && archive {
			res.err = writeEntry(zw, res.name, res.data)
		}
		if res.err != nil {
			failed++
		}
		if p.Spinner != nil {
			p.Spinner.SetMessage(fmt.Sprintf("%s %d images", utils.DecorateText("⇢ processed", utils.DefaultMessage), total))
		}
		op.printOpStatus(res.path, res.err)
	}

	if zw != nil {
		if err := zw.Close(); err != nil {
			return fmt.Errorf("unable to finalize the archive: %w", err)
		}
	}
	if err := <-errc; err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d images failed", failed, total)
	}
	return nil
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	f, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = f.Write(data)
	return err
}

// outputName maps a source path to its slash separated path relative to the source root,
// switching the extension when an output format is forced.
func (op *Ops) outputName(p *Processor, src string) string {
	rel, err := filepath.Rel(op.Src, src)
	if err != nil {
		rel = filepath.Base(src)
	}
	if p.Format != "" {
		rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + p.Format.Ext()
	}
	return filepath.ToSlash(rel)
}

// consumer reads the path names from the paths channel and runs the processor against each image.
func (op *Ops) consumer(
	ctx context.Context,
	p *Processor,
	archive bool,
	res chan<- result,
	done <-chan struct{},
	paths <-chan string,
) {
	for src := range paths {
		r := result{path: src, name: op.outputName(p, src)}
		if err := ctx.Err(); err != nil {
			r.err = err
		} else if archive {
			r.data, r.err = processToMemory(p, src)
		} else {
			dst := filepath.Join(op.Dst, filepath.FromSlash(r.name))
			if r.err = os.MkdirAll(filepath.Dir(dst), 0755); r.err == nil {
				r.err = op.process(p, src, dst)
			}
		}

		select {
		case <-done:
			return
		case res <- r:
		}
	}
}

func processToMemory(p *Processor, src string) ([]byte, error) {
	f, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("unable to open the source file: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := p.Process(f, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// process calls the processor over the source image and removes the destination on failure.
func (op *Ops) process(p *Processor, in, out string) error {
	src, dst, err := op.pathToFile(in, out)
	if err != nil {
		return err
	}
	if f, ok := src.(*os.File); ok && f != os.Stdin {
		defer f.Close()
	}
	err = p.Process(src, dst)
	closeFile(dst, err)
	return err
}

// closeFile closes a destination file and removes it when processing failed.
func closeFile(dst io.Writer, err error) {
	f, ok := dst.(*os.File)
	if !ok || f == os.Stdout {
		return
	}
	if cerr := f.Close(); cerr != nil {
		Logger().Warn("could not close the destination file", "file", f.Name(), "error", cerr)
	}
	if err != nil {
		os.Remove(f.Name())
	}
}

// pathToFile converts the source and destination paths to readable and writable files.
func (op *Ops) pathToFile(in, out string) (io.Reader, io.Writer, error) {
	var src io.Reader
	// Check if the source is a pipe name or a regular file.
	if in == op.PipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, nil, errors.New("`-` should be used with a pipe for stdin")
		}
		src = os.Stdin
	} else {
		f, err := os.Open(in)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to open the source file: %w", err)
		}
		src = f
	}

	dst, err := op.openDst(out)
	if err != nil {
		if f, ok := src.(*os.File); ok && f != os.Stdin {
			f.Close()
		}
		return nil, nil, err
	}
	return src, dst, nil
}

// openDst opens the destination file, or stdout for the pipe name.
func (op *Ops) openDst(out string) (io.Writer, error) {
	if out == op.PipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return nil, errors.New("`-` should be used with a pipe for stdout")
		}
		return os.Stdout, nil
	}
	f, err := os.Create(out)
	if err != nil {
		return nil, fmt.Errorf("unable to create the destination file: %w", err)
	}
	return f, nil
}

// printOpStatus displays the outcome of processing one image.
func (op *Ops) printOpStatus(fname string, err error) {
	w := op.out()
	if err != nil {
		fmt.Fprintf(w, "%s %s\n\t%s\n",
			utils.DecorateText("✘ failed:", utils.ErrorMessage),
			filepath.Base(fname),
			utils.DecorateText(fmt.Sprintf("Reason: %v", err), utils.DefaultMessage),
		)
		return
	}
	if fname != op.PipeName {
		fmt.Fprintf(w, "%s %s\n",
			utils.DecorateText("✔ saved:", utils.SuccessMessage),
			filepath.Base(fname),
		)
	}
}

// walkDir starts a new goroutine to walk the specified directory tree
// in recursive manner and sends the path of each supported file to a new channel.
// It finishes in case the done channel is getting closed.
func walkDir(
	done <-chan struct{},
	src string,
	srcExts []string,
) (<-chan string, <-chan error) {
	pathChan := make(chan string)
	errChan := make(chan error, 1)

	go func() {
		// Close the paths channel after Walk returns.
		defer close(pathChan)

		errChan <- filepath.Walk(src, func(path string, f os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !f.Mode().IsRegular() {
				return nil
			}
			if !utils.Contains(srcExts, strings.ToLower(filepath.Ext(f.Name()))) {
				return nil
			}
			select {
			case <-done:
				return errors.New("directory walk cancelled")
			case pathChan <- path:
			}
			return nil
		})
	}()
	return pathChan, errChan
}
