// Package cui implements the interactive text menu over CashbackService.
package cui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"cashback/internal/domain/models"
	"cashback/internal/services"

	"github.com/fatih/color"
)

var errExit = errors.New("exit")

// Options - menu input, output and styling.
type Options struct {
	In    io.Reader
	Out   io.Writer
	Color bool
}

type menuItem struct {
	key    string
	title  string
	action func() error
}

// CUI - console menu for managing cashbacks.
type CUI struct {
	service       services.CashbackService
	in            *bufio.Scanner
	out           io.Writer
	confirmations []string

	title *color.Color
	ok    *color.Color
	warn  *color.Color
	fail  *color.Color
	bank  *color.Color
}

// New creates a CUI that reads answers from opts.In and writes to opts.Out.
func New(service services.CashbackService, opts Options) *CUI {
	c := &CUI{
		service:       service,
		in:            bufio.NewScanner(opts.In),
		out:           opts.Out,
		confirmations: []string{"yes", "y"},
		title:         color.New(color.FgCyan, color.Bold),
		ok:            color.New(color.FgGreen),
		warn:          color.New(color.FgYellow),
		fail:          color.New(color.FgRed),
		bank:          color.New(color.Bold),
	}
	for _, col := range []*color.Color{c.title, c.ok, c.warn, c.fail, c.bank} {
		if opts.Color {
			col.EnableColor()
		} else {
			col.DisableColor()
		}
	}
	return c
}

// SetService replaces the service the menu works on.
// It lets the same input stream serve Prompt before the service exists.
func (c *CUI) SetService(service services.CashbackService) {
	c.service = service
}

// Prompt asks for a single line before the menu starts, e.g. the data file name.
func (c *CUI) Prompt(message string) (string, error) {
	return c.readLine(message)
}

// Run shows the menu until the user exits or input ends.
func (c *CUI) Run() error {
	items := []menuItem{
		{"1", "Add cashback", c.add},
		{"2", "Show all cashbacks", c.showAll},
		{"3", "Edit cashback", c.edit},
		{"4", "Find cashback", c.find},
		{"5", "Delete cashback", c.deleteEntry},
		{"6", "Delete bank", c.deleteGroup},
		{"7", "Clear all", c.clearAll},
		{"8", "Exit", c.exit},
	}

	for {
		c.rule(40)
		c.title.Fprintln(c.out, "CASHBACK MANAGER")
		c.rule(40)
		for _, it := range items {
			fmt.Fprintf(c.out, "%s. %s\n", it.key, it.title)
		}
		c.rule(40)

		choice, err := c.readLine(fmt.Sprintf("Select (1-%d): ", len(items)))
		if err != nil {
			return ignoreEOF(err)
		}

		var action func() error
		for _, it := range items {
			if it.key == choice {
				action = it.action
			}
		}
		if action == nil {
			c.fail.Fprintf(c.out, "Select a number from 1 to %d\n", len(items))
			continue
		}

		if err = action(); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			return ignoreEOF(err)
		}
	}
}

func (c *CUI) add() error {
	bank, err := c.promptNonEmpty("Bank name: ", "The bank name cannot be empty.")
	if err != nil {
		return err
	}
	name, err := c.promptNonEmpty("Cashback name: ", "The cashback name cannot be empty.")
	if err != nil {
		return err
	}

	if existing, ok := c.service.Lookup(bank, name); ok {
		c.warn.Fprintf(c.out, "Cashback '%s' is already in '%s' with %s%%\n", existing.Name, bank, formatPercent(existing.Percent))
		replace, err := c.confirm("Replace existing cashback? (yes/no): ")
		if err != nil {
			return err
		}
		if !replace {
			c.warn.Fprintln(c.out, "Cashback remains unchanged")
			return nil
		}
	}

	percent, err := c.promptPercent("Percent (%): ")
	if err != nil {
		return err
	}
	if err := c.service.Add(bank, models.Entry{Name: name, Percent: percent}); err != nil {
		c.report(err)
		return nil
	}
	c.ok.Fprintf(c.out, "Added cashback '%s' in '%s' with %s%%\n", name, bank, formatPercent(percent))
	return nil
}

func (c *CUI) showAll() error {
	doc := c.service.Document()
	if doc.IsEmpty() {
		c.warn.Fprintln(c.out, "No saved cashbacks")
		return nil
	}

	c.rule(40)
	c.title.Fprintln(c.out, "YOUR CASHBACKS")
	c.rule(40)
	for _, g := range doc.Groups() {
		c.bank.Fprintln(c.out, g.Name)
		for _, e := range g.Entries {
			fmt.Fprintf(c.out, "   %s: %s%%\n", e.Name, formatPercent(e.Percent))
		}
		fmt.Fprintln(c.out)
	}
	c.rule(40)
	fmt.Fprintf(c.out, "Total cashbacks: %d\n", doc.Total())
	return nil
}

func (c *CUI) edit() error {
	if err := c.showAll(); err != nil || c.service.Total() == 0 {
		return err
	}

	bank, name, ok, err := c.promptExisting()
	if err != nil || !ok {
		return err
	}
	current, _ := c.service.Lookup(bank, name)
	fmt.Fprintf(c.out, "Editing cashback: %s in %s\n", current.Name, bank)
	fmt.Fprintf(c.out, "Current percent: %s%%\n", formatPercent(current.Percent))

	percent, err := c.promptPercent(fmt.Sprintf("New percent (current %s%%): ", formatPercent(current.Percent)))
	if err != nil {
		return err
	}
	if err := c.service.Edit(bank, name, percent); err != nil {
		c.report(err)
		return nil
	}
	c.ok.Fprintf(c.out, "Cashback '%s' in '%s' updated to %s%%\n", current.Name, bank, formatPercent(percent))
	return nil
}

func (c *CUI) find() error {
	name, err := c.promptNonEmpty("Cashback name to search: ", "The cashback name cannot be empty.")
	if err != nil {
		return err
	}

	matches := c.service.Find(name)
	if len(matches) == 0 {
		c.fail.Fprintf(c.out, "Cashback '%s' not found\n", name)
		return nil
	}
	fmt.Fprintf(c.out, "Results (%d):\n", len(matches))
	for _, m := range matches {
		fmt.Fprintf(c.out, "%s: %s - %s%%\n", m.Group, m.Name, formatPercent(m.Percent))
	}
	return nil
}

func (c *CUI) deleteEntry() error {
	if err := c.showAll(); err != nil || c.service.Total() == 0 {
		return err
	}

	bank, name, ok, err := c.promptExisting()
	if err != nil || !ok {
		return err
	}
	sure, err := c.confirm("Are you sure? (yes/no): ")
	if err != nil {
		return err
	}
	if !sure {
		c.warn.Fprintln(c.out, "Deletion canceled")
		return nil
	}

	if err := c.service.DeleteEntry(bank, name); err != nil {
		c.report(err)
		return nil
	}
	c.ok.Fprintf(c.out, "Deleted cashback: %s in %s\n", name, bank)
	fmt.Fprintf(c.out, "Remaining cashbacks: %d\n", c.service.Total())
	return nil
}

func (c *CUI) deleteGroup() error {
	if err := c.showAll(); err != nil || c.service.Total() == 0 {
		return err
	}

	bank, err := c.promptNonEmpty("Bank name: ", "The bank name cannot be empty.")
	if err != nil {
		return err
	}
	if _, ok := c.service.Document().Group(bank); !ok {
		c.fail.Fprintf(c.out, "Bank '%s' does not exist\n", bank)
		return nil
	}
	sure, err := c.confirm("Are you sure? (yes/no): ")
	if err != nil {
		return err
	}
	if !sure {
		c.warn.Fprintln(c.out, "Deletion canceled")
		return nil
	}

	if err := c.service.DeleteGroup(bank); err != nil {
		c.report(err)
		return nil
	}
	c.ok.Fprintf(c.out, "Deleted bank: %s\n", bank)
	fmt.Fprintf(c.out, "Remaining banks: %d\n", c.service.Document().Len())
	return nil
}

func (c *CUI) clearAll() error {
	doc := c.service.Document()
	if doc.IsEmpty() && !fileExists(c.service.StoragePath()) {
		c.warn.Fprintln(c.out, "No saved cashbacks")
		return nil
	}

	c.rule(50)
	c.fail.Fprintln(c.out, "DELETING ALL CASHBACKS")
	c.rule(50)
	fmt.Fprintf(c.out, "Number of cashbacks: %d\n", doc.Total())
	for _, g := range doc.Groups() {
		fmt.Fprintf(c.out, "  %s\n", g.Name)
		for _, e := range g.Entries {
			fmt.Fprintf(c.out, "    %s\n", e.Name)
		}
	}
	c.fail.Fprintln(c.out, "This action is IRREVERSIBLE!")

	sure, err := c.confirm("Are you sure? (yes/no): ")
	if err != nil {
		return err
	}
	if !sure {
		c.warn.Fprintln(c.out, "Deletion canceled")
		return nil
	}

	if err := c.service.ClearAll(); err != nil {
		c.report(err)
		return nil
	}
	c.ok.Fprintln(c.out, "ALL CASHBACKS DELETED")
	if path := c.service.StoragePath(); path != "" {
		fmt.Fprintf(c.out, "Data file deleted: %s\n", path)
	}
	return nil
}

func (c *CUI) exit() error {
	fmt.Fprintln(c.out, "Goodbye!")
	return errExit
}

// promptExisting asks for a bank and a cashback and checks both exist.
func (c *CUI) promptExisting() (bank, name string, ok bool, err error) {
	bank, err = c.promptNonEmpty("Bank name: ", "The bank name cannot be empty.")
	if err != nil {
		return "", "", false, err
	}
	if _, found := c.service.Document().Group(bank); !found {
		c.fail.Fprintf(c.out, "Bank '%s' does not exist\n", bank)
		return "", "", false, nil
	}
	name, err = c.promptNonEmpty("Cashback name: ", "The cashback name cannot be empty.")
	if err != nil {
		return "", "", false, err
	}
	if _, found := c.service.Lookup(bank, name); !found {
		c.fail.Fprintf(c.out, "Cashback '%s' not found in '%s'\n", name, bank)
		return "", "", false, nil
	}
	return bank, name, true, nil
}

func (c *CUI) readLine(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

func (c *CUI) promptNonEmpty(prompt, emptyMsg string) (string, error) {
	for {
		s, err := c.readLine(prompt)
		if err != nil {
			return "", err
		}
		if s != "" {
			return s, nil
		}
		c.fail.Fprintln(c.out, emptyMsg)
	}
}

func (c *CUI) promptPercent(prompt string) (float64, error) {
	for {
		s, err := c.readLine(prompt)
		if err != nil {
			return 0, err
		}
		p, perr := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if perr == nil && models.ValidatePercent(p) == nil {
			return p, nil
		}
		c.fail.Fprintln(c.out, "Please enter a positive number.")
	}
}

func (c *CUI) confirm(prompt string) (bool, error) {
	s, err := c.readLine(prompt)
	if err != nil {
		return false, err
	}
	s = strings.ToLower(s)
	for _, v := range c.confirmations {
		if s == v {
			return true, nil
		}
	}
	return false, nil
}

func (c *CUI) report(err error) {
	c.fail.Fprintf(c.out, "Error: %v\n", err)
}

func (c *CUI) rule(n int) {
	fmt.Fprintln(c.out, strings.Repeat("=", n))
}

func formatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
