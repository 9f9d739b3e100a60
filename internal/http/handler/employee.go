package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"empapi/internal/model"
	"empapi/internal/service"
)

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func parseEmployee(c *fiber.Ctx) (*model.Employee, error) {
	var in model.Employee
	if err := c.BodyParser(&in); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid employee payload")
	}
	return &in, nil
}

// ListEmployees godoc
// @Summary List employees
// @Tags employee
// @Produce json
// @Success 200 {array} model.Employee
// @Failure 500 {string} string "An error occurred: ..."
// @Router /employee/ [get]
func ListEmployees(svc service.EmployeeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(items)
	}
}

// GetEmployee godoc
// @Summary Get an employee by id
// @Tags employee
// @Produce json
// @Param id path int true "Employee ID"
// @Success 200 {object} model.Employee
// @Failure 404 "employee not found, empty body"
// @Failure 500 {string} string "An error occurred: ..."
// @Router /employee/{id} [get]
func GetEmployee(svc service.EmployeeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		emp, err := svc.Get(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return notFound(c)
			}
			return err
		}
		return c.JSON(emp)
	}
}

// CreateEmployee godoc
// @Summary Create an employee
// @Description The id is assigned by the store; any id in the body is ignored.
// @Tags employee
// @Accept json
// @Produce json
// @Param employee body model.Employee true "Employee"
// @Success 201 {object} model.Employee
// @Failure 500 {object} errorPayload
// @Router /employee/ [post]
func CreateEmployee(svc service.EmployeeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		in, err := parseEmployee(c)
		if err != nil {
			return err
		}
		emp, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return internalError(c, err, "create employee failed")
		}
		return c.Status(fiber.StatusCreated).JSON(emp)
	}
}

// UpdateEmployee godoc
// @Summary Update an employee
// @Description Overwrites name, address and salary; the id is kept.
// @Tags employee
// @Accept json
// @Produce json
// @Param id path int true "Employee ID"
// @Param employee body model.Employee true "Employee"
// @Success 200 {object} model.Employee
// @Failure 404 "employee not found, empty body"
// @Failure 500 {object} errorPayload
// @Router /employee/{id} [put]
func UpdateEmployee(svc service.EmployeeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		in, err := parseEmployee(c)
		if err != nil {
			return err
		}
		emp, err := svc.Update(c.UserContext(), id, in)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return notFound(c)
			}
			return internalError(c, err, "update employee failed")
		}
		return c.JSON(emp)
	}
}

// DeleteEmployee godoc
// @Summary Delete an employee
// @Description Unknown ids are not checked and still answer 204.
// @Tags employee
// @Param id path int true "Employee ID"
// @Success 204
// @Failure 500 {object} errorPayload
// @Router /employee/{id} [delete]
func DeleteEmployee(svc service.EmployeeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return internalError(c, err, "delete employee failed")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
