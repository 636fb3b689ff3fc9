// importer carga una planilla de stock desde la línea de comandos.
//
// Uso:
//
//	importer planilla.csv --kind daily --unit UNB01
//	importer contagens.xlsx --kind counts --unit UNB01 --sheet Hoja1 --dry-run
//	importer lotes.csv --kind lots --purge-lots
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jhoicas/validade-api/internal/application/importer"
	"github.com/jhoicas/validade-api/internal/infrastructure/postgres"
	"github.com/jhoicas/validade-api/pkg/config"
	"github.com/jhoicas/validade-api/pkg/logger"
	"github.com/spf13/cobra"
)

// maxShownErrors errores de fila mostrados en consola; el resultado conserva todos.
const maxShownErrors = 20

type flags struct {
	kind      string
	unit      string
	separator string
	encoding  string
	sheet     string
	dryRun    bool
	purgeLots bool
}

func main() {
	var f flags
	cmd := &cobra.Command{
		Use:          "importer <archivo>",
		Short:        "Importa una planilla de stock (CSV o Excel)",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), args[0], f)
		},
	}
	cmd.Flags().StringVar(&f.kind, "kind", "daily", "formato: daily, counts o lots")
	cmd.Flags().StringVar(&f.unit, "unit", "", "código de la unidad (obligatorio salvo en lots)")
	cmd.Flags().StringVar(&f.separator, "separator", "", "separador CSV; vacío = detectar")
	cmd.Flags().StringVar(&f.encoding, "encoding", "", "encoding CSV; vacío = detectar")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "hoja Excel; vacío = hoja activa")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "procesa sin persistir")
	cmd.Flags().BoolVar(&f.purgeLots, "purge-lots", false, "lots: borra los lotes previos de cada producto")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, path string, f flags) error {
	kind, err := importer.ParseKind(strings.ToLower(f.kind))
	if err != nil {
		return err
	}
	if kind != importer.KindLots && f.unit == "" {
		return fmt.Errorf("--unit es obligatorio para %s", kind.Label())
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Out: os.Stderr})

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	defer pool.Close()

	units := postgres.NewUnitRepository(pool)
	var unitID string
	if kind != importer.KindLots {
		u, err := units.GetByCode(ctx, strings.ToUpper(f.unit))
		if err != nil {
			return err
		}
		if u == nil {
			return fmt.Errorf("unidad %q no encontrada", f.unit)
		}
		unitID = u.ID
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("abrir archivo: %w", err)
	}
	defer file.Close()

	svc := importer.NewService(units, postgres.NewTxRunner(pool), log, nil)
	res, err := svc.Import(ctx, kind, unitID, importer.Source{Filename: path, Body: file}, importer.Options{
		Separator: f.separator,
		Encoding:  f.encoding,
		Sheet:     f.sheet,
		DryRun:    f.dryRun,
		PurgeLots: f.purgeLots,
	})
	if err != nil {
		return err
	}
	printResult(res)
	if !res.Success {
		return fmt.Errorf("importación fallida")
	}
	return nil
}

func printResult(res *importer.Result) {
	fmt.Printf("Formato:     %s\n", res.Kind.Label())
	if res.Unit != "" {
		fmt.Printf("Unidad:      %s\n", res.Unit)
	}
	if res.DryRun {
		fmt.Println("Modo:        simulación (sin cambios)")
	}
	if res.Error != "" {
		fmt.Printf("Error:       %s\n", res.Error)
		return
	}
	fmt.Printf("Procesadas:  %d\n", res.Processed)
	fmt.Printf("Creados:     %d\n", res.Created)
	fmt.Printf("Actualizados: %d\n", res.Updated)
	if res.Kind == importer.KindLots {
		fmt.Printf("Lotes nuevos: %d, actualizados: %d\n", res.LotsCreated, res.LotsUpdated)
	}
	if len(res.UnknownUnits) > 0 {
		fmt.Printf("Unidades desconocidas: %s\n", strings.Join(res.UnknownUnits, ", "))
	}
	fmt.Printf("Advertencias: %d\n", len(res.Warnings))
	fmt.Printf("Errores:     %d\n", len(res.Errors))
	for _, e := range res.FirstErrors(maxShownErrors) {
		fmt.Printf("  - %s\n", e)
	}
	if len(res.Errors) > maxShownErrors {
		fmt.Printf("  ... y %d más\n", len(res.Errors)-maxShownErrors)
	}
}
