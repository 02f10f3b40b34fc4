package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"homeprice/internal/model"
	"homeprice/internal/service"
	"homeprice/internal/utils"

	"github.com/spf13/cobra"
)

func newLocationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locations",
		Short: "List the locations known to the prediction service",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			form := service.NewPredictionForm(service.NewPriceClient(&cfg.API), nil)
			if err := form.Load(ctx); err != nil {
				return fmt.Errorf("%s", service.UserMessage(err))
			}

			out := cmd.OutOrStdout()
			for _, loc := range form.State().Locations {
				fmt.Fprintf(out, "%-40s %s\n", loc, utils.LocationLabel(loc))
			}
			return nil
		},
	}
}

func newPredictCmd() *cobra.Command {
	var input model.FormInput
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Estimate the price of one property",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			form := service.NewPredictionForm(service.NewPriceClient(&cfg.API), nil)
			if err := form.Load(ctx); err != nil {
				return fmt.Errorf("%s", service.UserMessage(err))
			}
			if input.Location == "" {
				input.Location = form.State().Fields.Location
			}

			result, err := form.Submit(ctx, input)
			if err != nil {
				return fmt.Errorf("%s", service.UserMessage(err))
			}

			f := utils.NewPriceFormatter(cfg.Display.Locale)
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ₹ %s Lakhs (≈ ₹ %s)\n",
				utils.LocationLabel(input.Location), f.Lakhs(result.EstimatedPrice), f.Rupees(result.EstimatedPrice))
			return nil
		},
	}
	cmd.Flags().StringVarP(&input.Location, "location", "l", "", "location name (defaults to the first known location)")
	cmd.Flags().StringVar(&input.Sqft, "sqft", "", "total square feet")
	cmd.Flags().StringVar(&input.BHK, "bhk", "", "number of bedrooms")
	cmd.Flags().StringVar(&input.Bath, "bath", "", "number of bathrooms")
	return cmd
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether the prediction service is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client := service.NewPriceClient(&cfg.API)
			info, err := client.Info(cmd.Context())
			if err != nil {
				return fmt.Errorf("%s: %w", client.BaseURL(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\nstatus: %s\nversion: %s\nlocations: %d\n",
				info.Message, info.Status, info.Version, info.TotalLocations)
			return nil
		},
	}
}
