package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/pomocoin/internal/model"
	"github.com/verte-zerg/pomocoin/internal/store"
)

var shopBuyYes bool

func newShopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shop",
		Short: "Spend coins on unlockables",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List unlockables",
		Args:  cobra.NoArgs,
		RunE:  runShopListCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "add <name> <cost>",
		Short: "Add an unlockable",
		Args:  cobra.ExactArgs(2),
		RunE:  runShopAddCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Stock an empty shop with sample prizes",
		Args:  cobra.NoArgs,
		RunE:  runShopSeedCmd,
	})
	buyCmd := &cobra.Command{
		Use:   "buy <id>",
		Short: "Buy an unlockable",
		Args:  cobra.ExactArgs(1),
		RunE:  runShopBuyCmd,
	}
	buyCmd.Flags().BoolVarP(&shopBuyYes, "yes", "y", false, "skip confirmation")
	cmd.AddCommand(buyCmd)
	return cmd
}

func runShopListCmd(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	settings, err := st.GetSettings(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	items, err := st.ListUnlockables(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list unlockables: %w", err)
	}
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "Balance: %d coins\n", settings.Currency); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(items) == 0 {
		logErrln("The shop is empty. Stock it with: pomocoin shop seed")
		return nil
	}
	for _, item := range items {
		if _, err := fmt.Fprintln(out, formatUnlockable(item, settings.Currency)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func formatUnlockable(item model.Unlockable, balance int) string {
	status := ""
	switch {
	case item.Purchased:
		status = "owned"
	case item.Cost > balance:
		status = fmt.Sprintf("need %d more", item.Cost-balance)
	}
	return strings.TrimRight(fmt.Sprintf("%3d  %-24s %5d  %s", item.ID, item.Name, item.Cost, status), " ")
}

func runShopAddCmd(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])
	if name == "" {
		return fmt.Errorf("name must not be empty")
	}
	cost, err := strconv.Atoi(args[1])
	if err != nil || cost <= 0 {
		return fmt.Errorf("cost must be a positive number")
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)
	id, err := st.InsertUnlockable(cmd.Context(), model.Unlockable{Name: name, Cost: cost})
	if err != nil {
		return fmt.Errorf("failed to add unlockable: %w", err)
	}
	logErrf("Added unlockable %d (%s, %d coins)\n", id, name, cost)
	return nil
}

func runShopSeedCmd(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)
	n, err := st.SeedUnlockables(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to seed shop: %w", err)
	}
	if n == 0 {
		logErrln("The shop already has items; nothing seeded.")
		return nil
	}
	logErrf("Seeded %d unlockables\n", n)
	return nil
}

func runShopBuyCmd(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid unlockable id %q", args[0])
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	if !shopBuyYes {
		ok, err := confirm(fmt.Sprintf("Buy unlockable %d?", id))
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	item, err := st.Purchase(cmd.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("unlockable %d does not exist", id)
	case errors.Is(err, store.ErrAlreadyPurchased):
		return fmt.Errorf("unlockable %d is already yours", id)
	case errors.Is(err, store.ErrInsufficientFunds):
		settings, serr := st.GetSettings(cmd.Context())
		if serr != nil {
			return fmt.Errorf("not enough coins")
		}
		return fmt.Errorf("not enough coins (balance %d)", settings.Currency)
	case err != nil:
		return fmt.Errorf("failed to purchase: %w", err)
	}
	logErrf("Bought %s for %d coins\n", item.Name, item.Cost)
	return nil
}
