package main

import (
	"fmt"
	"os"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/importer"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/services"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	ingredientsFile string
	skipHeader      bool
	tagsFile        string
)

var loadIngredientsCmd = &cobra.Command{
	Use:   "load-ingredients",
	Short: "Load ingredients from a CSV or JSON file, skipping names already present",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := importer.FormatOf(ingredientsFile)
		if err != nil {
			return err
		}
		f, err := os.Open(ingredientsFile)
		if err != nil {
			return err
		}
		defer f.Close()

		items, err := importer.ReadIngredients(f, format, skipHeader)
		if err != nil {
			return err
		}
		inserted, err := services.NewReferenceService(repos).ImportIngredients(cmd.Context(), items)
		if err != nil {
			return err
		}
		log.WithField("file", ingredientsFile).Infof("Loaded %d of %d ingredients", inserted, len(items))
		fmt.Fprintf(cmd.OutOrStdout(), "Ingredients loaded: %d new, %d total in file\n", inserted, len(items))
		return nil
	},
}

var loadTagsCmd = &cobra.Command{
	Use:   "load-tags",
	Short: "Load tags from a JSON file, skipping those already present",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(tagsFile)
		if err != nil {
			return err
		}
		defer f.Close()

		tags, err := importer.ReadTags(f)
		if err != nil {
			return err
		}
		inserted, err := services.NewReferenceService(repos).ImportTags(cmd.Context(), tags)
		if err != nil {
			return err
		}
		log.WithField("file", tagsFile).Infof("Loaded %d of %d tags", inserted, len(tags))
		fmt.Fprintf(cmd.OutOrStdout(), "Tags loaded: %d new, %d total in file\n", inserted, len(tags))
		return nil
	},
}

func init() {
	loadIngredientsCmd.Flags().StringVarP(&ingredientsFile, "file", "f", "data/ingredients.csv", "CSV or JSON file to load")
	loadIngredientsCmd.Flags().BoolVar(&skipHeader, "header", true, "CSV file starts with a header row")
	loadTagsCmd.Flags().StringVarP(&tagsFile, "file", "f", "data/tags.json", "JSON file to load")
	rootCmd.AddCommand(loadIngredientsCmd, loadTagsCmd)
}
