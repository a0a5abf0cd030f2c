// Package main generates a self-signed server certificate and key for the
// report API, writing them to files under the "certs" directory.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atinyakov/ReportKeeper/internal/certgen"
)

func main() {
	dir := flag.String("dir", "certs", "output directory")
	hosts := flag.String("hosts", "localhost,127.0.0.1", "comma-separated DNS names and IPs")
	days := flag.Int("days", 365, "validity in days")
	flag.Parse()

	if err := run(*dir, *hosts, *days); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("Certificates generated into ./%s (use -tls-cert %s -tls-key %s)\n",
		*dir, filepath.Join(*dir, "server.crt"), filepath.Join(*dir, "server.key"))
}

func run(dir, hosts string, days int) error {
	var list []string
	for _, h := range strings.Split(hosts, ",") {
		if h = strings.TrimSpace(h); h != "" {
			list = append(list, h)
		}
	}

	certPEM, keyPEM, err := certgen.GenerateSelfSigned(list, time.Duration(days)*24*time.Hour)
	if err != nil {
		return err
	}
	return certgen.WriteKeyPair(filepath.Join(dir, "server.crt"), filepath.Join(dir, "server.key"), certPEM, keyPEM)
}
