package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"premium-calc/internal/logging"
	"premium-calc/internal/model"
	"premium-calc/internal/premium"
)

var (
	calcSex        string
	calcStart      int
	calcEnd        int
	calcExcludeEnd bool
	calcItems      []string
	calcDetail     bool
	yearOut        string
	detailOut      string
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Calculate premiums for a basket of products",
	Long: `Calculate yearly and cumulative premiums for one or more products.

Each --item is CODE:FACE_AMOUNT or CODE:FACE_AMOUNT:QUANTITY.
Unset --sex, --start and --end fall back to the config defaults.

Examples:
  premium calc --sex F --start 16 --end 50 --item A001:1000000
  premium calc --item A001:1000000 --item R100:50000:2 --detail
  premium calc --item A001:1000000 --year-out year_sum.csv --detail-out detail_by_product.csv`,
	Args: cobra.NoArgs,
	RunE: runCalc,
}

func init() {
	calcCmd.Flags().StringVarP(&calcSex, "sex", "s", "", "insured sex, M or F")
	calcCmd.Flags().IntVar(&calcStart, "start", 0, "first age of the policy window")
	calcCmd.Flags().IntVar(&calcEnd, "end", 0, "last age of the policy window")
	calcCmd.Flags().BoolVar(&calcExcludeEnd, "exclude-end", false, "do not price the end age")
	calcCmd.Flags().StringArrayVarP(&calcItems, "item", "i", nil, "basket item CODE:FACE_AMOUNT[:QUANTITY] (repeatable)")
	calcCmd.Flags().BoolVarP(&calcDetail, "detail", "d", false, "print the per-product detail table")
	calcCmd.Flags().StringVar(&yearOut, "year-out", "", "write the year summary CSV to this path")
	calcCmd.Flags().StringVar(&detailOut, "detail-out", "", "write the per-product detail CSV to this path")
	_ = calcCmd.MarkFlagRequired("item")
}

func runCalc(cmd *cobra.Command, args []string) error {
	window, err := calcWindow(cmd)
	if err != nil {
		return err
	}
	items := make([]model.RequestedItem, 0, len(calcItems))
	for _, spec := range calcItems {
		item, err := parseItem(spec)
		if err != nil {
			return err
		}
		items = append(items, item)
	}

	repo, err := loadRates()
	if err != nil {
		return err
	}
	res, err := premium.New(repo).Calculate(items, window)
	if err != nil {
		return err
	}
	logging.Debug("calculated",
		zap.Int("years", len(res.YearSummary)),
		zap.String("total", res.Total.String()))

	out := cmd.OutOrStdout()
	printResult(out, res, calcDetail)

	if yearOut != "" {
		if err := writeFile(yearOut, func(w io.Writer) error { return premium.WriteYearSummaryCSV(w, res.YearSummary) }); err != nil {
			return err
		}
		fmt.Fprintf(out, "Year summary written to %s\n", yearOut)
	}
	if detailOut != "" {
		if err := writeFile(detailOut, func(w io.Writer) error { return premium.WriteDetailCSV(w, res.Detail) }); err != nil {
			return err
		}
		fmt.Fprintf(out, "Detail written to %s\n", detailOut)
	}
	return nil
}

// calcWindow overlays explicitly set flags on the configured defaults.
func calcWindow(cmd *cobra.Command) (model.PolicyWindow, error) {
	d := cfg.Defaults
	sexStr, start, end, include := d.Sex, d.StartAge, d.EndAge, d.IncludeEndAge

	flags := cmd.Flags()
	if flags.Changed("sex") {
		sexStr = calcSex
	}
	if flags.Changed("start") {
		start = calcStart
	}
	if flags.Changed("end") {
		end = calcEnd
	}
	if flags.Changed("exclude-end") {
		include = !calcExcludeEnd
	}

	sex, err := model.ParseSex(sexStr)
	if err != nil {
		return model.PolicyWindow{}, err
	}
	return model.PolicyWindow{Sex: sex, StartAge: start, EndAge: end, IncludeEndAge: include}, nil
}

// parseItem parses CODE:FACE_AMOUNT[:QUANTITY]. Quantity defaults to 1.
func parseItem(spec string) (model.RequestedItem, error) {
	parts := strings.Split(spec, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return model.RequestedItem{}, fmt.Errorf("item %q: want CODE:FACE_AMOUNT[:QUANTITY]", spec)
	}
	code := strings.TrimSpace(parts[0])
	if code == "" {
		return model.RequestedItem{}, fmt.Errorf("item %q: empty product code", spec)
	}
	amount, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(parts[1]), ",", ""))
	if err != nil {
		return model.RequestedItem{}, fmt.Errorf("item %q: face amount: %w", spec, err)
	}
	qty := 1
	if len(parts) == 3 {
		qty, err = strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil {
			return model.RequestedItem{}, fmt.Errorf("item %q: quantity: %w", spec, err)
		}
	}
	return model.RequestedItem{ProductCode: code, FaceAmount: amount, Quantity: qty}, nil
}

func printResult(w io.Writer, res *premium.Result, detail bool) {
	years := newTable("Premium by age", "AGE", "PREMIUM", "CUMULATIVE").alignRight(0, 1, 2)
	for _, y := range res.YearSummary {
		years.addRow(strconv.Itoa(y.Age), money(y.Total), money(y.Cumulative))
	}
	fmt.Fprintln(w, years.render())

	if detail {
		t := newTable("Detail", "AGE", "CODE", "NAME", "UNIT", "FACE", "QTY", "RATE", "PREMIUM").alignRight(0, 4, 5, 6, 7)
		for _, r := range res.Detail {
			t.addRow(strconv.Itoa(r.Age), r.ProductCode, r.ProductName, string(r.Unit),
				money(r.FaceAmount), strconv.Itoa(r.Quantity), r.UnitRate.String(), money(r.YearPremium))
		}
		fmt.Fprintln(w, t.render())
	}

	products := newTable("Premium by product", "CODE", "NAME", "TOTAL").alignRight(2)
	for _, pt := range res.ProductTotals() {
		products.addRow(pt.ProductCode, pt.ProductName, money(pt.Total))
	}
	fmt.Fprintln(w, products.render())

	fmt.Fprintln(w, totalStyle.Render("Total premium: "+money(res.Total)))
}

// money renders whole currency units with thousands separators.
func money(d decimal.Decimal) string {
	s := premium.RoundWhole(d).StringFixed(0)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
