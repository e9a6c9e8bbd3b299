package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/aura-hq/staffmanager/internal/client"
	"github.com/aura-hq/staffmanager/internal/logger"
	"github.com/aura-hq/staffmanager/internal/model"
	"golang.org/x/term"
)

// staffctl is the terminal console for the staffmanager API. It keeps
// a session file between invocations and hides sections the logged-in
// role cannot use, mirroring the web console's navigation rules.
func main() {
	var (
		apiURL      string
		sessionPath string
		logLevel    string
	)
	flag.StringVar(&apiURL, "api", envOr("STAFFMANAGER_API", "http://localhost:8081"), "API base URL")
	flag.StringVar(&sessionPath, "session", os.Getenv("STAFFMANAGER_SESSION"), "Session file path (default ~/.staffmanager/session.json)")
	flag.StringVar(&logLevel, "log-level", "warn", "Log level")
	flag.Parse()

	log := logger.Setup(logLevel, "pretty")

	session, err := client.NewSessionStore(sessionPath)
	if err != nil {
		fatal("cannot locate session file: %v", err)
	}

	api := client.New(apiURL, session, log)
	api.OnSessionExpired(func() {
		fmt.Fprintln(os.Stderr, "Your session has expired or was signed out elsewhere. Please log in again.")
	})

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(2)
	}

	app := &console{api: api, session: session}

	var cmdErr error
	switch args[0] {
	case "login":
		cmdErr = app.login(ctx)
	case "logout":
		cmdErr = app.logout(ctx)
	case "whoami":
		cmdErr = app.whoami(ctx)
	case "employees":
		cmdErr = app.employees(ctx, args[1:])
	case "departments":
		cmdErr = app.departments(ctx, args[1:])
	case "leave":
		cmdErr = app.leave(ctx, args[1:])
	case "salaries":
		cmdErr = app.salaries(ctx, args[1:])
	default:
		printUsage()
		os.Exit(2)
	}

	if cmdErr != nil {
		if errors.Is(cmdErr, client.ErrSessionExpired) {
			os.Exit(1) // Notice already printed by the expiry hook.
		}
		fatal("%v", cmdErr)
	}
}

type console struct {
	api     *client.Client
	session *client.SessionStore
}

// ─── auth commands ─────────────────────────────────────────────────────

func (a *console) login(ctx context.Context) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)

	fmt.Print("Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}

	auth, err := a.api.Login(ctx, email, string(bytePassword))
	if err != nil {
		return err
	}

	fmt.Printf("Logged in as %s (%s)\n", auth.User.FullName(), auth.User.Role)
	return nil
}

func (a *console) logout(ctx context.Context) error {
	if err := a.api.Logout(ctx); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

func (a *console) whoami(ctx context.Context) error {
	profile, err := a.api.Me(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%s <%s> — %s\n", profile.User.FullName(), profile.User.Email, profile.User.Role)
	if profile.Employee != nil {
		fmt.Printf("Employee #%d, %s, %s\n",
			profile.Employee.ID, profile.Employee.Position, profile.Employee.DepartmentName)
	}
	fmt.Printf("Capabilities: %s\n", joinCaps(profile.Capabilities))
	return nil
}

// ─── employees ─────────────────────────────────────────────────────────

func (a *console) employees(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}

	switch args[0] {
	case "list":
		list, err := a.api.ListEmployees(ctx)
		if err != nil {
			return err
		}
		w := newTable()
		fmt.Fprintln(w, "ID\tNAME\tDEPARTMENT\tPOSITION\tSTATUS")
		for _, e := range list {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
				e.ID, e.FullName(), e.DepartmentName, e.Position, e.Status)
		}
		return w.Flush()

	case "get":
		id, err := idArg(args, 1)
		if err != nil {
			return err
		}
		e, err := a.api.GetEmployee(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("#%d %s <%s>\n", e.ID, e.FullName(), e.Email)
		fmt.Printf("  %s, %s\n", e.Position, e.DepartmentName)
		fmt.Printf("  Hired %s, status %s\n", e.HireDate, e.Status)
		return nil

	case "rm":
		if !a.require(model.CapEmployeesManage) {
			return nil
		}
		id, err := idArg(args, 1)
		if err != nil {
			return err
		}
		if err := a.api.DeleteEmployee(ctx, id); err != nil {
			return err
		}
		fmt.Printf("Employee #%d removed.\n", id)
		return nil
	}

	return fmt.Errorf("unknown employees subcommand %q", args[0])
}

// ─── departments ───────────────────────────────────────────────────────

func (a *console) departments(ctx context.Context, args []string) error {
	if !a.require(model.CapDepartmentsManage) {
		return nil
	}
	if len(args) == 0 {
		args = []string{"list"}
	}

	switch args[0] {
	case "list":
		list, err := a.api.ListDepartments(ctx)
		if err != nil {
			return err
		}
		w := newTable()
		fmt.Fprintln(w, "ID\tNAME\tEMPLOYEES\tDESCRIPTION")
		for _, d := range list {
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", d.ID, d.Name, d.EmployeeCount, d.Description)
		}
		return w.Flush()

	case "rm":
		id, err := idArg(args, 1)
		if err != nil {
			return err
		}
		if err := a.api.DeleteDepartment(ctx, id); err != nil {
			return err
		}
		fmt.Printf("Department #%d removed; its employees were detached.\n", id)
		return nil
	}

	return fmt.Errorf("unknown departments subcommand %q", args[0])
}

// ─── leave ─────────────────────────────────────────────────────────────

func (a *console) leave(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"my"}
	}

	switch args[0] {
	case "list":
		if !a.require(model.CapLeaveReview) {
			return nil
		}
		list, err := a.api.ListLeaveRequests(ctx)
		if err != nil {
			return err
		}
		return printLeaveTable(list, true)

	case "my":
		list, err := a.api.MyLeaveRequests(ctx)
		if err != nil {
			return err
		}
		return printLeaveTable(list, false)

	case "summary":
		summary, err := a.api.MyLeaveSummary(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Approved days used: %d\nPending requests: %d\n",
			summary.UsedDays, summary.PendingCount)
		return nil

	case "submit":
		fs := flag.NewFlagSet("leave submit", flag.ExitOnError)
		leaveType := fs.String("type", "VACATION", "VACATION, SICK, PERSONAL or OTHER")
		start := fs.String("start", "", "Start date (YYYY-MM-DD)")
		end := fs.String("end", "", "End date (YYYY-MM-DD)")
		reason := fs.String("reason", "", "Reason (min 5 characters)")
		_ = fs.Parse(args[1:])

		lr, err := a.api.SubmitLeaveRequest(ctx, &model.CreateLeaveRequest{
			Type:      *leaveType,
			StartDate: *start,
			EndDate:   *end,
			Reason:    *reason,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Submitted request #%d (%d days, %s).\n", lr.ID, lr.Days, lr.Status)
		return nil

	case "approve", "reject":
		if !a.require(model.CapLeaveReview) {
			return nil
		}
		id, err := idArg(args, 1)
		if err != nil {
			return err
		}
		fs := flag.NewFlagSet("leave decide", flag.ExitOnError)
		comment := fs.String("comment", "", "Reviewer comment")
		_ = fs.Parse(args[2:])

		status := model.LeaveApproved
		if args[0] == "reject" {
			status = model.LeaveRejected
		}
		lr, err := a.api.DecideLeaveRequest(ctx, id, status, *comment)
		if err != nil {
			return err
		}
		fmt.Printf("Request #%d is now %s.\n", lr.ID, lr.Status)
		return nil

	case "withdraw":
		id, err := idArg(args, 1)
		if err != nil {
			return err
		}
		if err := a.api.WithdrawLeaveRequest(ctx, id); err != nil {
			return err
		}
		fmt.Printf("Request #%d withdrawn.\n", id)
		return nil
	}

	return fmt.Errorf("unknown leave subcommand %q", args[0])
}

// ─── salaries ──────────────────────────────────────────────────────────

func (a *console) salaries(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}

	switch args[0] {
	case "list":
		if !a.require(model.CapSalariesManage) {
			return nil
		}
		list, err := a.api.ListSalaries(ctx)
		if err != nil {
			return err
		}
		return printSalaryTable(list)

	case "my":
		profile, err := a.api.Me(ctx)
		if err != nil {
			return err
		}
		if profile.Employee == nil {
			return errors.New("no employee record is linked to this account")
		}
		list, err := a.api.SalariesByEmployee(ctx, profile.Employee.ID)
		if err != nil {
			return err
		}
		return printSalaryTable(list)

	case "payslip":
		id, err := idArg(args, 1)
		if err != nil {
			return err
		}
		fs := flag.NewFlagSet("salaries payslip", flag.ExitOnError)
		out := fs.String("o", "", "Output file (default payslip-<id>.pdf)")
		_ = fs.Parse(args[2:])

		pdf, err := a.api.DownloadPayslip(ctx, id)
		if err != nil {
			return err
		}
		name := *out
		if name == "" {
			name = fmt.Sprintf("payslip-%d.pdf", id)
		}
		if err := os.WriteFile(name, pdf, 0o644); err != nil {
			return err
		}
		fmt.Printf("Wrote %s (%d bytes).\n", name, len(pdf))
		return nil
	}

	return fmt.Errorf("unknown salaries subcommand %q", args[0])
}

// ─── helpers ───────────────────────────────────────────────────────────

// require hides admin sections from roles that lack the capability.
// The backend enforces the same rule; this only improves the error.
func (a *console) require(c model.Capability) bool {
	if a.session.Can(c) {
		return true
	}
	fmt.Fprintln(os.Stderr, "This section is not available for your role.")
	return false
}

func printLeaveTable(list []model.LeaveRequest, withNames bool) error {
	w := newTable()
	if withNames {
		fmt.Fprintln(w, "ID\tEMPLOYEE\tTYPE\tFROM\tTO\tDAYS\tSTATUS")
	} else {
		fmt.Fprintln(w, "ID\tTYPE\tFROM\tTO\tDAYS\tSTATUS")
	}
	for _, lr := range list {
		if withNames {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\t%s\n",
				lr.ID, lr.EmployeeName, lr.Type, lr.StartDate, lr.EndDate, lr.Days, lr.Status)
		} else {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n",
				lr.ID, lr.Type, lr.StartDate, lr.EndDate, lr.Days, lr.Status)
		}
	}
	return w.Flush()
}

func printSalaryTable(list []model.Salary) error {
	w := newTable()
	fmt.Fprintln(w, "ID\tEMPLOYEE\tMONTH\tNET\tSTATUS")
	for _, s := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%s\n", s.ID, s.EmployeeName, s.Month, s.NetSalary, s.Status)
	}
	return w.Flush()
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func joinCaps(caps []model.Capability) string {
	parts := make([]string, 0, len(caps))
	for _, c := range caps {
		parts = append(parts, string(c))
	}
	return strings.Join(parts, ", ")
}

func idArg(args []string, pos int) (int64, error) {
	if len(args) <= pos {
		return 0, errors.New("missing ID argument")
	}
	id, err := strconv.ParseInt(args[pos], 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid ID %q", args[pos])
	}
	return id, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func printUsage() {
	fmt.Println(`staffctl — employee management console

Usage: staffctl [flags] <command> [args]

Commands:
  login                         Sign in and store a session
  logout                        Sign out everywhere
  whoami                        Show the logged-in identity
  employees list|get <id>|rm <id>
  departments list|rm <id>
  leave my|summary|submit|list|approve <id>|reject <id>|withdraw <id>
  salaries list|my|payslip <id>

Flags:`)
	flag.PrintDefaults()
}
