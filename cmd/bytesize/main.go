// Binary bytesize converts between exact byte counts and human-readable
// sizes, and summarizes disk usage of directories.
package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/Debian/bytesize/internal/humanbytes"

	"pault.ag/go/debian/control"
)

type verboseLogger bool

func (v verboseLogger) Printf(format string, args ...interface{}) {
	if !bool(v) {
		return
	}
	log.Output(2, fmt.Sprintf(format, args...))
}

type invocation struct {
	parse   bool
	commas  bool
	du      bool
	verbose bool

	// diskUsageLimit is the total above which -du fails. Zero disables the
	// check.
	diskUsageLimit humanbytes.ByteSize

	stdout io.Writer // for testing
}

func (i *invocation) V() verboseLogger {
	return verboseLogger(i.verbose)
}

func (i *invocation) readConfig(configPath string) error {
	b, err := ioutil.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var config struct {
		DiskUsageLimit string `control:"Disk-Usage-Limit"`
	}
	if err := control.Unmarshal(&config, bytes.NewReader(b)); err != nil {
		return err
	}
	i.V().Printf("read config from %s: %+v", configPath, config)
	if config.DiskUsageLimit != "" {
		if v, err := humanbytes.Parse(config.DiskUsageLimit); err != nil {
			log.Printf("invalid Disk-Usage-Limit value %q in config file %s: %v", config.DiskUsageLimit, configPath, err)
		} else {
			i.diskUsageLimit = v
		}
	}
	return nil
}

func resolveTilde(s string) string {
	if !strings.HasPrefix(s, "~") {
		return s
	}
	homedir := os.Getenv("HOME")
	if homedir == "" {
		log.Fatalf("Cannot resolve path %q: environment variable $HOME empty", s)
	}
	return filepath.Join(homedir, strings.TrimPrefix(s, "~"))
}

// operands returns args, or the lines of r if args is empty.
func operands(args []string, r io.Reader) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

func (i *invocation) run(args []string) error {
	bufw := bufio.NewWriter(i.stdout)
	defer bufw.Flush()

	if i.du {
		return i.diskUsage(bufw, args)
	}

	for _, arg := range args {
		var (
			out string
			err error
		)
		if i.parse {
			out, err = i.parseSize(arg)
		} else {
			out, err = formatCount(arg)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(bufw, out)
	}
	return bufw.Flush()
}

func main() {
	i := invocation{
		stdout: os.Stdout,
	}

	flag.BoolVar(&i.parse, "parse",
		false,
		"Interpret arguments as human-readable sizes (e.g. 1.5GB, 4KiB) and print exact byte counts")

	flag.BoolVar(&i.commas, "commas",
		false,
		"With -parse, group digits of the byte count with commas")

	flag.BoolVar(&i.du, "du",
		false,
		"Interpret arguments as directories and print the total size of the files within")

	flag.Var(&i.diskUsageLimit, "limit",
		"With -du, exit with an error if the total exceeds this size (default: Disk-Usage-Limit from the config file)")

	flag.BoolVar(&i.verbose, "verbose",
		false,
		"Whether to print messages to stderr")

	flag.Parse()

	if i.parse && i.du {
		log.Fatalf("At most one of -parse or -du must be specified, not both")
	}

	limitSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "limit" {
			limitSet = true
		}
	})
	if !limitSet {
		configPath := filepath.Join(resolveTilde("~/.config/bytesize"), "bytesize.deb822")
		if err := i.readConfig(configPath); err != nil {
			log.Fatal(err)
		}
	}

	args, err := operands(flag.Args(), os.Stdin)
	if err != nil {
		log.Fatal(err)
	}
	if err := i.run(args); err != nil {
		log.Fatal(err)
	}
}
