package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/route"
)

func printRoutes(w io.Writer, t *route.Table) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPATH\tAUTH\tREDIRECT")
	for _, r := range t.Records() {
		name := r.Name
		if name == "" {
			name = "-"
		}
		auth := "required"
		if !r.Protected() {
			auth = "public"
		}
		redirect := r.Redirect
		if redirect == "" {
			redirect = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", name, r.Path, auth, redirect)
	}
	return tw.Flush()
}

func printState(w io.Writer, st goSession.State) {
	if st.Identity == nil {
		fmt.Fprintf(w, "user: (anonymous)\n")
	} else {
		fmt.Fprintf(w, "user: %s\n", st.Identity.Username)
		if st.Identity.ExpiresAt != nil {
			fmt.Fprintf(w, "expires: %s\n", st.Identity.ExpiresAt.Format(time.RFC3339))
		}
	}
	fmt.Fprintf(w, "initialized: %t\n", st.Initialized)
	if st.Error != "" {
		fmt.Fprintf(w, "error: %s\n", st.Error)
	}
}

func printNavigation(w io.Writer, nav goSession.Navigation) {
	for i, a := range nav.Attempts {
		line := fmt.Sprintf("%d. %s -> %s", i+1, a.To.FullPath, a.Decision.Kind)
		if a.Decision.Target != "" {
			line += " " + a.Decision.Target
		}
		if a.Decision.Reason != "" {
			line += " (" + a.Decision.Reason + ")"
		}
		fmt.Fprintln(w, line)
	}
	if !nav.Final.IsZero() {
		fmt.Fprintf(w, "at %s\n", nav.Final.FullPath)
	}
}
