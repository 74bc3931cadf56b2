package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zdaf-zdaf/group-platform/internal/domain/model"
)

func runMaterials(cmdCtx *commandContext, args []string) error {
	if err := requireLogin(cmdCtx); err != nil {
		return err
	}
	return dispatch(cmdCtx, "materials", map[string]subcommand{
		"list":     materialsList,
		"upload":   materialsUpload,
		"update":   materialsUpdate,
		"delete":   materialsDelete,
		"download": materialsDownload,
	}, args)
}

func materialsList(cmdCtx *commandContext, args []string) error {
	fs, out := newFlagSet(cmdCtx, "materials list")
	search := fs.String("search", "", "title filter")
	typ := fs.String("type", "", "pdf|video|doc|image")
	if err := fs.Parse(args); err != nil {
		return err
	}
	items, err := cmdCtx.Portal.Materials.List(cmdCtx.Ctx, model.MaterialFilter{
		Search: *search,
		Type:   model.MaterialType(strings.ToLower(*typ)),
	})
	if err != nil {
		return err
	}
	return printResult(cmdCtx, out, items)
}

type materialFlags struct {
	title       *string
	description *string
	typ         *string
	file        *string
}

// upload reads the file flag, if set, into a MaterialUpload.
func (f materialFlags) upload() (model.MaterialUpload, error) {
	in := model.MaterialUpload{
		Title:       strings.TrimSpace(*f.title),
		Description: *f.description,
		Type:        model.MaterialType(strings.ToLower(strings.TrimSpace(*f.typ))),
	}
	if *f.file == "" {
		return in, nil
	}
	data, err := os.ReadFile(*f.file)
	if err != nil {
		return in, fmt.Errorf("read %s: %w", *f.file, err)
	}
	in.FileName = filepath.Base(*f.file)
	in.File = data
	return in, nil
}

func registerMaterialFlags(fs *flag.FlagSet) materialFlags {
	return materialFlags{
		title:       fs.String("title", "", "material title"),
		description: fs.String("description", "", "material description"),
		typ:         fs.String("type", string(model.MaterialPDF), "pdf|video|doc|image"),
		file:        fs.String("file", "", "path of the file to upload"),
	}
}

func materialsUpload(cmdCtx *commandContext, args []string) error {
	fs, out := newFlagSet(cmdCtx, "materials upload")
	mf := registerMaterialFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	in, err := mf.upload()
	if err != nil {
		return err
	}
	item, err := cmdCtx.Portal.Materials.Create(cmdCtx.Ctx, in)
	if err != nil {
		return err
	}
	return printResult(cmdCtx, out, item)
}

func materialsUpdate(cmdCtx *commandContext, args []string) error {
	fs, out := newFlagSet(cmdCtx, "materials update")
	mf := registerMaterialFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := parseIDArg(fs)
	if err != nil {
		return err
	}
	in, err := mf.upload()
	if err != nil {
		return err
	}
	item, err := cmdCtx.Portal.Materials.Update(cmdCtx.Ctx, id, in)
	if err != nil {
		return err
	}
	return printResult(cmdCtx, out, item)
}

func materialsDelete(cmdCtx *commandContext, args []string) error {
	fs, _ := newFlagSet(cmdCtx, "materials delete")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := parseIDArg(fs)
	if err != nil {
		return err
	}
	if err := cmdCtx.Portal.Materials.Delete(cmdCtx.Ctx, id); err != nil {
		return err
	}
	return writef(cmdCtx.Out, "deleted material %d\n", id)
}

func materialsDownload(cmdCtx *commandContext, args []string) error {
	fs, _ := newFlagSet(cmdCtx, "materials download")
	dir := fs.String("dir", ".", "directory to write the file into")
	name := fs.String("o", "", "file name (defaults to the server-provided name)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := parseIDArg(fs)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(*dir, ".portal-download-*")
	if err != nil {
		return fmt.Errorf("create download file: %w", err)
	}
	defer func() {
		if tmp != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	info, err := cmdCtx.Portal.Materials.Download(cmdCtx.Ctx, id, tmp)
	if err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close download file: %w", err)
	}

	target := *name
	if target == "" {
		target = info.FileName
	}
	if target == "" {
		target = fmt.Sprintf("material-%d", id)
	}
	dest := filepath.Join(*dir, filepath.Base(target))
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("save download: %w", err)
	}
	tmp = nil
	return writef(cmdCtx.Out, "saved %s (%d bytes)\n", dest, info.Size)
}
