package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"doclens/internal/diag"
	"doclens/internal/grammar"
	"doclens/internal/source"
)

// ListSourceFiles возвращает отсортированный список файлов, для расширений
// которых зарегистрирована грамматика. Скрытые каталоги пропускаются.
func ListSourceFiles(dir string, reg *grammar.Registry) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name := d.Name(); name != "." && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := reg.ForPath(path); ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// ScanDir analyzes every recognized file under dir in parallel. The returned
// results are ordered by path. When a cache is configured, unchanged files
// are served from it and carry a Summary but no Doc.
func ScanDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []Result, error) {
	reg := opts.registry()
	opts.Registry = reg

	files, err := ListSourceFiles(dir, reg)
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return source.NewFileSetWithBase(dir), nil, nil
	}

	// Создаём FileSet и предзагружаем все файлы: Load не потокобезопасен,
	// а воркерам нужны только готовые *File.
	fileSet := source.NewFileSetWithBase(dir)
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))

	for _, path := range files {
		fileID, err := fileSet.Load(path)
		if err != nil {
			loadErrors[path] = err
			continue
		}
		fileIDs[path] = fileID
		opts.Events.send(Event{File: path, Stage: StageQueue, Status: StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]Result, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func(i int, path string) func() error {
			return func() error {
				// Проверка отмены
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				bag := diag.NewBag(opts.maxDiagnostics())

				if loadErr, hadError := loadErrors[path]; hadError {
					bag.Add(diag.Diagnostic{
						Severity: diag.SevError,
						Code:     diag.IOLoadFileError,
						Message:  "failed to load file: " + loadErr.Error(),
					})
					results[i] = Result{Path: path, Bag: bag}
					opts.Events.send(Event{File: path, Stage: StageScan, Status: StatusError})
					return nil
				}

				fileID := fileIDs[path]
				file := fileSet.Get(fileID)

				gram, ok := resolveGrammar(reg, path, opts.Language, bag)
				if !ok {
					results[i] = Result{Path: path, FileID: fileID, Bag: bag}
					opts.Events.send(Event{File: path, Stage: StageScan, Status: StatusError})
					return nil
				}

				key := CacheKey(file.Hash, gram.Name, opts.ExtraTags)
				if opts.Cache != nil {
					var payload DiskPayload
					if hit, err := opts.Cache.Get(key, &payload); err == nil && hit {
						results[i] = Result{
							Path:      path,
							FileID:    fileID,
							Summary:   diskPayloadToSummary(&payload, path),
							Bag:       bag,
							FromCache: true,
						}
						opts.Events.send(Event{File: path, Stage: StageAnalyze, Status: StatusDone})
						return nil
					}
				}

				opts.Events.send(Event{File: path, Stage: StageScan, Status: StatusWorking})
				doc := buildFile(file, gram, &opts, bag)
				sum := summarize(doc, path)

				if opts.Cache != nil && !bag.HasErrors() {
					// ошибки записи кеша не влияют на результат скана
					_ = opts.Cache.Put(key, summaryToDiskPayload(sum))
				}

				results[i] = Result{
					Path:    path,
					FileID:  fileID,
					Doc:     doc,
					Summary: sum,
					Bag:     bag,
				}
				opts.Events.send(Event{File: path, Stage: StageAnalyze, Status: StatusDone})
				return nil
			}
		}(i, path))
	}

	// Ждём завершения всех горутин
	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}

	return fileSet, results, nil
}
